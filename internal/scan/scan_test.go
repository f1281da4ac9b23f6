// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/docmill/pkg/types"
)

func TestJobs(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "out")

	if err := os.WriteFile(filepath.Join(inputDir, "a.pdf"), []byte("pdf-a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(inputDir, "B.PDF"), []byte("pdf-b-longer"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(inputDir, "notes.txt"), []byte("not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Nested directories are not scanned.
	if err := os.MkdirAll(filepath.Join(inputDir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(inputDir, "nested", "c.pdf"), []byte("pdf-c"), 0o644); err != nil {
		t.Fatal(err)
	}

	jobs, err := Jobs(inputDir, outputDir)
	if err != nil {
		t.Fatal(err)
	}

	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	for _, j := range jobs {
		if j.State != types.JobPending {
			t.Errorf("job %s state = %q, want pending", j.SourcePath, j.State)
		}
		if j.Attempt != 0 {
			t.Errorf("job %s attempt = %d, want 0", j.SourcePath, j.Attempt)
		}
		if filepath.Dir(j.TargetPath) != outputDir {
			t.Errorf("target %s not under output dir", j.TargetPath)
		}
	}

	// ReadDir returns entries sorted by name: B.PDF before a.pdf.
	if jobs[0].TargetPath != filepath.Join(outputDir, "B.md") {
		t.Errorf("target = %s, want B.md in output dir", jobs[0].TargetPath)
	}
	if jobs[0].SourceSize != int64(len("pdf-b-longer")) {
		t.Errorf("source size = %d, want %d", jobs[0].SourceSize, len("pdf-b-longer"))
	}
	if jobs[1].TargetPath != filepath.Join(outputDir, "a.md") {
		t.Errorf("target = %s, want a.md in output dir", jobs[1].TargetPath)
	}

	if _, err := os.Stat(outputDir); err != nil {
		t.Errorf("output dir should have been created: %v", err)
	}
}

func TestJobs_MissingInputDir(t *testing.T) {
	_, err := Jobs(filepath.Join(t.TempDir(), "missing"), t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing input folder")
	}
}

func TestJobs_EmptyInputDir(t *testing.T) {
	jobs, err := Jobs(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 0 {
		t.Errorf("got %d jobs from empty dir, want 0", len(jobs))
	}
}

func TestJobs_UniqueTargets(t *testing.T) {
	inputDir := t.TempDir()
	for _, name := range []string{"one.pdf", "two.pdf", "three.pdf"} {
		if err := os.WriteFile(filepath.Join(inputDir, name), []byte("pdf"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	jobs, err := Jobs(inputDir, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[string]bool)
	for _, j := range jobs {
		if seen[j.TargetPath] {
			t.Errorf("duplicate target path %s", j.TargetPath)
		}
		seen[j.TargetPath] = true
	}
}
