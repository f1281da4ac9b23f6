// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/docmill/pkg/types"
)

// TesseractReconstructor rebuilds a document by rasterizing each page with
// pdftoppm and recognizing the images with tesseract. Much slower than the
// structural path; the pipeline invokes it only for suspect results.
type TesseractReconstructor struct {
	pdftoppm  string
	tesseract string
	lang      string
	dpi       int
	maxPages  int
	runner    Runner
	logger    *slog.Logger
}

// NewTesseractReconstructor creates the OCR fallback backend with defaults
// filled in for any unset configuration.
func NewTesseractReconstructor(cfg types.BackendConfig, logger *slog.Logger) *TesseractReconstructor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &TesseractReconstructor{
		pdftoppm:  cfg.Pdftoppm,
		tesseract: cfg.Tesseract,
		lang:      cfg.TesseractLang,
		dpi:       cfg.DPI,
		maxPages:  cfg.MaxPages,
		runner:    execRunner{},
		logger:    logger,
	}
}

// Reconstruct rasterizes sourcePath page by page, runs OCR on each image,
// and writes the recognized text to targetPath, overwriting whatever the
// primary pass produced.
func (r *TesseractReconstructor) Reconstruct(ctx context.Context, sourcePath, targetPath string) error {
	tmpDir, err := os.MkdirTemp("", "docmill-ocr-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			r.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <source> <tmp/page>
	_, errb, err := r.runner.Run(ctx, r.pdftoppm, "-r", fmt.Sprintf("%d", r.dpi), "-png", sourcePath, prefix)
	if err != nil {
		return fmt.Errorf("pdftoppm %s: %w (stderr: %s)", sourcePath, err, truncate(string(errb), 512))
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if r.maxPages > 0 && len(matches) > r.maxPages {
		matches = matches[:r.maxPages]
	}
	if len(matches) == 0 {
		return fmt.Errorf("pdftoppm rendered no pages for %s", sourcePath)
	}

	var b strings.Builder
	for _, img := range matches {
		// tesseract <image> stdout -l <lang>
		out, errb, err := r.runner.Run(ctx, r.tesseract, img, "stdout", "-l", r.lang)
		if err != nil {
			return fmt.Errorf("tesseract %s: %w (stderr: %s)", img, err, truncate(string(errb), 512))
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n") // keep a clear page break marker
		}
		b.Write(out)
	}

	r.logger.Info("ocr reconstruction done", "source", sourcePath, "pages", len(matches), "bytes", b.Len())
	return writeTarget(targetPath, []byte(b.String()))
}
