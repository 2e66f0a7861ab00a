package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/mrjulesfletcher/dng-to-video/internal/logging"
)

// DefaultCommand is the encoder binary resolved from PATH.
const DefaultCommand = "ffmpeg"

// Encoder implements the app.VideoEncoder port by invoking the external
// encoder binary. Exit code 0 is the only success; stderr is captured so
// a failure can be reported with the encoder's own diagnostics.
type Encoder struct {
	Command string
	Logger  *slog.Logger
}

func (e Encoder) AssembleFlat(ctx context.Context, frameDir, outputPath string, fps int, format, profile string) error {
	return e.run(ctx, FlatVideoArgs(frameDir, outputPath, fps, format, profile))
}

func (e Encoder) ApplyLUT(ctx context.Context, inputVideo, lutPath, outputPath string, format, profile string) error {
	return e.run(ctx, LUTArgs(inputVideo, lutPath, outputPath, format, profile))
}

func (e Encoder) run(ctx context.Context, args []string) error {
	command := e.Command
	if command == "" {
		command = DefaultCommand
	}
	logger := e.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	logger.Debug("running encoder", slog.String("command", command), slog.String("args", strings.Join(args, " ")))

	cmd := exec.CommandContext(ctx, command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		tail := lastLines(stderr.String(), 10)
		logger.Debug("encoder failed", slog.Any("error", err), slog.String("stderr", tail))
		if tail != "" {
			return fmt.Errorf("%s: %w: %s", command, err, tail)
		}
		return fmt.Errorf("%s: %w", command, err)
	}
	return nil
}

func lastLines(output string, n int) string {
	output = strings.TrimSpace(output)
	if output == "" {
		return ""
	}
	lines := strings.Split(output, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
