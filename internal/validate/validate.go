// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate classifies a just-produced conversion result as accepted
// or suspect. There is no ground truth to compare against, so the heuristic
// uses only cheap signals: target size relative to source size, and the
// fraction of non-whitespace content. False positives cost one unnecessary
// OCR pass; false negatives are the tolerated residual risk.
package validate

import (
	"fmt"
	"os"

	"github.com/pdiddy/docmill/pkg/types"
)

// Class is the validator's judgment of a conversion result.
type Class string

const (
	// Accepted means the primary output looks trustworthy.
	Accepted Class = "accepted"
	// Suspect means the output cannot be confirmed and one fallback pass
	// should run. Suspect is a normal outcome, not an error.
	Suspect Class = "suspect"
)

// Verdict carries the classification and, for suspect results, the signal
// that triggered it.
type Verdict struct {
	Class  Class
	Reason string
}

// Validator applies the configured cutoffs. Identical inputs always yield
// the same verdict.
type Validator struct {
	cfg types.ValidatorConfig
}

// New creates a Validator, filling defaults for any unset cutoff.
func New(cfg types.ValidatorConfig) *Validator {
	if cfg.SizeThresholdBytes <= 0 {
		cfg.SizeThresholdBytes = 15 * 1024
	}
	if cfg.LargeSourceBytes <= 0 {
		cfg.LargeSourceBytes = 100 * 1024
	}
	if cfg.MinValidRatio <= 0 {
		cfg.MinValidRatio = 0.1
	}
	return &Validator{cfg: cfg}
}

// Classify inspects the target produced for a source of sourceSize bytes.
func (v *Validator) Classify(sourceSize int64, targetPath string) Verdict {
	info, err := os.Stat(targetPath)
	if err != nil {
		return suspect("target missing or unreadable: %v", err)
	}
	if info.Size() == 0 {
		return suspect("target is empty")
	}

	// A substantial source that shrank to almost nothing is the signature
	// of a text layer the structural path could not extract.
	if sourceSize >= v.cfg.LargeSourceBytes && info.Size() < v.cfg.SizeThresholdBytes {
		return suspect("target is %d bytes (threshold %d) for a %d byte source",
			info.Size(), v.cfg.SizeThresholdBytes, sourceSize)
	}

	data, err := os.ReadFile(targetPath)
	if err != nil {
		return suspect("reading target: %v", err)
	}
	if ratio := contentRatio(data); ratio <= v.cfg.MinValidRatio {
		return suspect("mostly blank content (%.2f non-whitespace ratio)", ratio)
	}

	return Verdict{Class: Accepted}
}

func suspect(format string, args ...any) Verdict {
	return Verdict{Class: Suspect, Reason: fmt.Sprintf(format, args...)}
}

// contentRatio returns the fraction of bytes that are not whitespace.
func contentRatio(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	valid := 0
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r', '\f', '\v':
		default:
			valid++
		}
	}
	return float64(valid) / float64(len(data))
}
