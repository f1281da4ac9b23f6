// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan enumerates convertible source files and builds the jobs for
// a batch run.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/docmill/pkg/types"
)

// Jobs scans inputDir (non-recursively) for PDF files and returns one
// pending Job per file, with a size snapshot and a target path under
// outputDir. The input directory must exist; the output directory is
// created if absent. Target paths are unique because input filenames are
// unique within one directory.
func Jobs(inputDir, outputDir string) ([]*types.Job, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("reading input folder %s: %w", inputDir, err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output folder %s: %w", outputDir, err)
	}

	var jobs []*types.Job
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		jobs = append(jobs, &types.Job{
			ID:         uuid.New(),
			SourcePath: filepath.Join(inputDir, entry.Name()),
			TargetPath: filepath.Join(outputDir, base+".md"),
			SourceSize: info.Size(),
			State:      types.JobPending,
		})
	}
	return jobs, nil
}
