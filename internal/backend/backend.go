// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backend implements the conversion collaborators consumed by the
// pipeline: a fast structural Converter tried first for every file, and a
// slower OCR Reconstructor used when the primary result is judged suspect.
package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Converter is the primary conversion path. Convert must be idempotent:
// re-invoking it on the same target path fully overwrites the previous
// output. A Converter may produce a malformed or near-empty target without
// returning an error; catching that is the validator's job.
type Converter interface {
	Convert(ctx context.Context, sourcePath, targetPath string) error
}

// Reconstructor is the fallback recognition path. Reconstruct rebuilds the
// target from page images, overwriting whatever the primary pass left
// behind. Same idempotency contract as Converter.
type Reconstructor interface {
	Reconstruct(ctx context.Context, sourcePath, targetPath string) error
}

// writeTarget writes data to path through a temp file and rename, so a
// re-run always fully overwrites and a crash never leaves a partial target.
func writeTarget(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".docmill-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing target: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
