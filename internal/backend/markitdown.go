// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

const imageMarkitdown = "markitdown:latest"

// containerRuntimes lists the runtimes tried in order, each with the
// subcommand used to check image existence.
var containerRuntimes = []struct {
	bin        string
	imageCheck []string
}{
	{bin: "docker", imageCheck: []string{"image", "inspect"}},
	{bin: "podman", imageCheck: []string{"image", "exists"}},
}

// MarkitdownConverter converts PDFs to Markdown by piping them through the
// markitdown container image. Docker is tried first, then podman.
type MarkitdownConverter struct {
	bin    string
	runner Runner
	logger *slog.Logger
}

// NewMarkitdownConverter detects an available container runtime and verifies
// that the markitdown image exists locally before returning.
func NewMarkitdownConverter(logger *slog.Logger) (*MarkitdownConverter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return newMarkitdownConverter(execRunner{}, logger)
}

func newMarkitdownConverter(runner Runner, logger *slog.Logger) (*MarkitdownConverter, error) {
	for _, rt := range containerRuntimes {
		args := append(append([]string{}, rt.imageCheck...), imageMarkitdown)
		if _, _, err := runner.Run(context.Background(), rt.bin, args...); err == nil {
			logger.Debug("container runtime selected", "runtime", rt.bin)
			return &MarkitdownConverter{bin: rt.bin, runner: runner, logger: logger}, nil
		}
	}
	return nil, fmt.Errorf("markitdown image %s not available in docker or podman", imageMarkitdown)
}

// Convert pipes the PDF at sourcePath through the markitdown container and
// writes the resulting Markdown to targetPath.
func (m *MarkitdownConverter) Convert(ctx context.Context, sourcePath, targetPath string) error {
	f, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("opening PDF %s: %w", sourcePath, err)
	}
	defer f.Close()

	out, errb, err := m.runner.RunStdin(ctx, f, m.bin, "run", "--rm", "-i", imageMarkitdown)
	if err != nil {
		return fmt.Errorf("converting %s with markitdown: %w (stderr: %s)", sourcePath, err, truncate(string(errb), 512))
	}
	if len(out) == 0 {
		return fmt.Errorf("markitdown produced empty output for %s", sourcePath)
	}
	return writeTarget(targetPath, out)
}
