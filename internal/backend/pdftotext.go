// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pdiddy/docmill/pkg/types"
)

// PdftotextConverter extracts the embedded text layer of a PDF with the
// poppler pdftotext tool. Fast, but silently yields little or no text for
// scanned or image-only pages.
type PdftotextConverter struct {
	bin    string
	runner Runner
	logger *slog.Logger
}

// NewPdftotextConverter creates the default primary converter.
func NewPdftotextConverter(cfg types.BackendConfig, logger *slog.Logger) *PdftotextConverter {
	if logger == nil {
		logger = slog.Default()
	}
	bin := cfg.Pdftotext
	if bin == "" {
		bin = "pdftotext"
	}
	return &PdftotextConverter{bin: bin, runner: execRunner{}, logger: logger}
}

// Convert runs pdftotext on sourcePath and writes the text to targetPath,
// fully overwriting any previous output.
func (c *PdftotextConverter) Convert(ctx context.Context, sourcePath, targetPath string) error {
	// pdftotext -layout -enc UTF-8 -eol unix <source> -
	out, errb, err := c.runner.Run(ctx, c.bin, "-layout", "-enc", "UTF-8", "-eol", "unix", sourcePath, "-")
	if err != nil {
		return fmt.Errorf("pdftotext %s: %w (stderr: %s)", sourcePath, err, truncate(string(errb), 512))
	}
	c.logger.Debug("primary conversion done", "source", sourcePath, "bytes", len(out))
	return writeTarget(targetPath, out)
}
