// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/docmill/pkg/types"
)

// pageWriter simulates pdftoppm by creating page images under the prefix it
// was called with.
func pageWriter(t *testing.T, pages int) func(name string, args []string) {
	t.Helper()
	return func(name string, args []string) {
		if name != "pdftoppm" {
			return
		}
		prefix := args[len(args)-1]
		for i := 1; i <= pages; i++ {
			path := fmt.Sprintf("%s-%d.png", prefix, i)
			if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestTesseractReconstructor_Reconstruct(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.md")
	runner := &fakeRunner{
		results: map[string]fakeResult{
			"tesseract": {stdout: []byte("recognized line")},
		},
		onRun: pageWriter(t, 2),
	}
	r := NewTesseractReconstructor(types.BackendConfig{}, nil)
	r.runner = runner

	if err := r.Reconstruct(context.Background(), "scan.pdf", target); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	// Two pages joined by the form-feed page marker.
	if got := string(data); got != "recognized line\n\f\nrecognized line" {
		t.Errorf("target content = %q", got)
	}

	// One pdftoppm call plus one tesseract call per page.
	if len(runner.calls) != 3 {
		t.Fatalf("got %d command invocations, want 3", len(runner.calls))
	}
	if !strings.Contains(strings.Join(runner.calls[0], " "), "-r 300 -png") {
		t.Errorf("pdftoppm call missing defaults: %v", runner.calls[0])
	}
	if !strings.Contains(strings.Join(runner.calls[1], " "), "stdout -l eng") {
		t.Errorf("tesseract call missing defaults: %v", runner.calls[1])
	}
}

func TestTesseractReconstructor_MaxPages(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.md")
	runner := &fakeRunner{
		results: map[string]fakeResult{
			"tesseract": {stdout: []byte("page")},
		},
		onRun: pageWriter(t, 5),
	}
	r := NewTesseractReconstructor(types.BackendConfig{MaxPages: 2}, nil)
	r.runner = runner

	if err := r.Reconstruct(context.Background(), "scan.pdf", target); err != nil {
		t.Fatal(err)
	}

	tesseractCalls := 0
	for _, call := range runner.calls {
		if call[0] == "tesseract" {
			tesseractCalls++
		}
	}
	if tesseractCalls != 2 {
		t.Errorf("tesseract ran %d times, want 2 (page cap)", tesseractCalls)
	}
}

func TestTesseractReconstructor_NoPagesRendered(t *testing.T) {
	runner := &fakeRunner{results: map[string]fakeResult{}}
	r := NewTesseractReconstructor(types.BackendConfig{}, nil)
	r.runner = runner

	err := r.Reconstruct(context.Background(), "scan.pdf", filepath.Join(t.TempDir(), "out.md"))
	if err == nil {
		t.Fatal("expected error when pdftoppm renders nothing")
	}
	if !strings.Contains(err.Error(), "no pages") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTesseractReconstructor_TesseractError(t *testing.T) {
	runner := &fakeRunner{
		results: map[string]fakeResult{
			"tesseract": {stderr: []byte("could not initialize"), err: errors.New("exit status 1")},
		},
		onRun: pageWriter(t, 1),
	}
	r := NewTesseractReconstructor(types.BackendConfig{}, nil)
	r.runner = runner

	target := filepath.Join(t.TempDir(), "out.md")
	err := r.Reconstruct(context.Background(), "scan.pdf", target)
	if err == nil {
		t.Fatal("expected error")
	}
	if _, statErr := os.Stat(target); !os.IsNotExist(statErr) {
		t.Error("failed reconstruction should not create a target")
	}
}
