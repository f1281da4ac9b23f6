// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pdiddy/docmill/internal/backend"
	"github.com/pdiddy/docmill/internal/validate"
	"github.com/pdiddy/docmill/pkg/types"
)

const defaultWorkers = 4

// Pool runs a fixed number of workers draining the queue. Each job runs its
// whole two-stage lifecycle (convert, validate, optional OCR fallback) on
// the worker that dequeued it, so no job state is ever shared between
// workers; the queue and the report are the only shared structures.
type Pool struct {
	workers   int
	convert   backend.Converter
	ocr       backend.Reconstructor
	validator *validate.Validator
	report    *Report
	logger    *slog.Logger
}

// NewPool creates a pool of workers jobs wide. A non-positive worker count
// falls back to the default of 4.
func NewPool(workers int, conv backend.Converter, ocr backend.Reconstructor, v *validate.Validator, report *Report, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = defaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{
		workers:   workers,
		convert:   conv,
		ocr:       ocr,
		validator: v,
		report:    report,
		logger:    logger,
	}
}

// Run starts the workers and blocks until the queue reports end-of-work and
// every dequeued job has reached a terminal state.
func (p *Pool) Run(ctx context.Context, q *Queue) {
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.worker(ctx, id, q)
		}(i)
	}
	wg.Wait()
}

func (p *Pool) worker(ctx context.Context, id int, q *Queue) {
	for {
		job, ok := q.Dequeue()
		if !ok {
			return
		}
		p.process(ctx, job)
		p.report.Record(job)
		p.logger.Debug("job finished",
			"worker", id,
			"job_id", job.ID,
			"source", job.SourcePath,
			"state", job.State,
		)
	}
}

// process advances one job through the state machine. Backend errors and
// panics are contained here: the job fails with a reason and the worker
// moves on, so one bad input never stalls the batch.
func (p *Pool) process(ctx context.Context, job *types.Job) {
	defer func() {
		if r := recover(); r != nil {
			p.fail(job, fmt.Sprintf("backend panic: %v", r))
		}
	}()

	job.State = types.JobConverting
	if err := p.convert.Convert(ctx, job.SourcePath, job.TargetPath); err != nil {
		p.fail(job, fmt.Sprintf("primary conversion: %v", err))
		return
	}

	job.State = types.JobValidating
	verdict := p.validator.Classify(job.SourceSize, job.TargetPath)
	if verdict.Class == validate.Accepted {
		job.State = types.JobSucceeded
		return
	}
	if job.Attempt >= 1 {
		p.fail(job, verdict.Reason)
		return
	}

	job.State = types.JobReprocessing
	job.Attempt++
	p.logger.Warn("suspect conversion, reprocessing with ocr",
		"job_id", job.ID,
		"source", job.SourcePath,
		"reason", verdict.Reason,
	)

	// The OCR result is trusted unconditionally: it is already the most
	// thorough path available, so re-validating it could only loop.
	if err := p.ocr.Reconstruct(ctx, job.SourcePath, job.TargetPath); err != nil {
		p.fail(job, fmt.Sprintf("ocr fallback: %v", err))
		return
	}
	job.State = types.JobRecovered
}

func (p *Pool) fail(job *types.Job, reason string) {
	job.State = types.JobFailed
	job.FailureReason = reason
	p.logger.Error("job failed", "job_id", job.ID, "source", job.SourcePath, "reason", reason)
}
