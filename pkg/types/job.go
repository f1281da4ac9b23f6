// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "github.com/google/uuid"

// JobState tracks where a conversion job is in its lifecycle.
type JobState string

const (
	JobPending      JobState = "pending"
	JobConverting   JobState = "converting"
	JobValidating   JobState = "validating"
	JobReprocessing JobState = "reprocessing"
	JobSucceeded    JobState = "succeeded"
	JobRecovered    JobState = "recovered"
	JobFailed       JobState = "failed"
)

// Terminal reports whether s is a final state. A terminal job is never
// mutated again.
func (s JobState) Terminal() bool {
	switch s {
	case JobSucceeded, JobRecovered, JobFailed:
		return true
	}
	return false
}

// Job is the unit of work: one source PDF and its intended output file.
// A dequeued Job is owned by exactly one worker for its whole lifecycle,
// including the fallback pass; it is never handed back to the queue.
// State moves forward only, except the single validating→reprocessing loop.
type Job struct {
	// ID correlates log lines for this job across the run.
	ID uuid.UUID `json:"id" yaml:"id"`

	// SourcePath is the input file.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// TargetPath is the output file, unique per job within a batch.
	TargetPath string `json:"target_path" yaml:"target_path"`

	// SourceSize is the input size in bytes, snapshotted at enqueue time.
	SourceSize int64 `json:"source_size" yaml:"source_size"`

	// State is the job's position in the lifecycle.
	State JobState `json:"state" yaml:"state"`

	// Attempt counts fallback reprocessing passes performed (at most 1).
	Attempt int `json:"attempt" yaml:"attempt"`

	// FailureReason is set only when State becomes JobFailed.
	FailureReason string `json:"failure_reason,omitempty" yaml:"failure_reason,omitempty"`
}
