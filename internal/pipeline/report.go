// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docmill/pkg/types"
)

// Entry is one line of the batch log.
type Entry struct {
	SourcePath    string         `json:"source" yaml:"source"`
	State         types.JobState `json:"state" yaml:"state"`
	FailureReason string         `json:"failure_reason,omitempty" yaml:"failure_reason,omitempty"`
}

// Summary is the immutable result of a finalized batch.
type Summary struct {
	// Converted counts jobs the primary path handled directly.
	Converted int `json:"converted" yaml:"converted"`
	// Recovered counts jobs rescued by the OCR fallback.
	Recovered int `json:"recovered" yaml:"recovered"`
	// Failed counts jobs that reached no usable output.
	Failed int `json:"failed" yaml:"failed"`

	Entries []Entry `json:"files" yaml:"files"`
}

// Total returns the total number of jobs processed.
func (s Summary) Total() int {
	return s.Converted + s.Recovered + s.Failed
}

// HasFailures reports whether any job failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Fprint writes the closing summary line in the batch output format.
func (s Summary) Fprint(w io.Writer) {
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d recovered, %d failed (total: %d)\n",
		s.Converted, s.Recovered, s.Failed, s.Total())
}

// Report accumulates per-job outcomes from all workers. Record is the single
// synchronization point between workers; it holds the lock only for a
// counter bump, a log append, and one status line.
type Report struct {
	mu     sync.Mutex
	status io.Writer

	converted int
	recovered int
	failed    int
	entries   []Entry
}

// NewReport creates a report that writes per-file status lines to w.
func NewReport(w io.Writer) *Report {
	if w == nil {
		w = io.Discard
	}
	return &Report{status: w}
}

// Record registers a terminal job. It is called exactly once per job, by
// the worker that finalized it, and is safe under concurrent calls.
func (r *Report) Record(job *types.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch job.State {
	case types.JobSucceeded:
		r.converted++
		fmt.Fprintf(r.status, "converted: %s\n", job.SourcePath)
	case types.JobRecovered:
		r.recovered++
		fmt.Fprintf(r.status, "recovered: %s (via ocr)\n", job.SourcePath)
	case types.JobFailed:
		r.failed++
		fmt.Fprintf(r.status, "failed:  %s (%s)\n", job.SourcePath, job.FailureReason)
	default:
		// Non-terminal states are a pipeline bug; count them as failures
		// so the totals still add up.
		r.failed++
		fmt.Fprintf(r.status, "failed:  %s (finalized in state %q)\n", job.SourcePath, job.State)
	}

	r.entries = append(r.entries, Entry{
		SourcePath:    job.SourcePath,
		State:         job.State,
		FailureReason: job.FailureReason,
	})
}

// Finalize returns an immutable snapshot of the accumulated outcomes. It is
// called once, after all workers have exited.
func (r *Report) Finalize() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	return Summary{
		Converted: r.converted,
		Recovered: r.recovered,
		Failed:    r.failed,
		Entries:   entries,
	}
}

// WriteSummary marshals the summary to a YAML file at path.
func WriteSummary(s Summary, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
