package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/mrjulesfletcher/dng-to-video/internal/domain"
	apperrors "github.com/mrjulesfletcher/dng-to-video/internal/errors"
	"github.com/mrjulesfletcher/dng-to-video/internal/logging"
)

const (
	FlatVideoBaseName   = "flat_video"
	GradedVideoBaseName = "lut_applied_video"
)

// Sequencer drives the pipeline stages in order: convert, assemble the
// flat video, apply the LUT. It is single threaded; every stage runs to
// completion before the next may start. A stage failure parks the
// sequencer in StateFailed and leaves prior artifacts on disk.
type Sequencer struct {
	FS        FileSystem
	Converter *Converter
	Encoder   VideoEncoder
	Logger    *slog.Logger

	state    domain.PipelineState
	inputDir string
	frameDir string
	flatPath string
}

func NewSequencer(fs FileSystem, converter *Converter, encoder VideoEncoder, logger *slog.Logger) *Sequencer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Sequencer{
		FS:        fs,
		Converter: converter,
		Encoder:   encoder,
		Logger:    logger,
		state:     domain.StateNotStarted,
	}
}

func (s *Sequencer) State() domain.PipelineState { return s.state }

// FrameDir returns the processed directory once the sequencer has reached
// StateConverted.
func (s *Sequencer) FrameDir() string { return s.frameDir }

// FlatVideoPath returns the assembled flat video once available.
func (s *Sequencer) FlatVideoPath() string { return s.flatPath }

// HasPriorBatch reports whether inputDir already has a processed
// directory from an earlier run.
func (s *Sequencer) HasPriorBatch(inputDir string) bool {
	exists, err := s.FS.Exists(filepath.Join(inputDir, ProcessedDirName))
	if err != nil {
		return false
	}
	return exists
}

// Convert runs the batch converter. Zero successful conversions fail the
// transition; partial failure does not.
func (s *Sequencer) Convert(ctx context.Context, inputDir string, opts domain.DecodeOptions) (*domain.BatchOutcome, error) {
	if err := s.require(domain.StateNotStarted, "convert"); err != nil {
		return nil, err
	}

	outcome, err := s.Converter.ConvertAll(ctx, inputDir, opts)
	if err != nil {
		s.state = domain.StateFailed
		return nil, err
	}
	if outcome == nil || outcome.SuccessCount == 0 {
		s.state = domain.StateFailed
		return outcome, apperrors.Wrap(apperrors.InputMissing, "convert", inputDir,
			fmt.Errorf("no frames were converted"))
	}

	s.inputDir = inputDir
	s.frameDir = outcome.OutputDir
	s.state = domain.StateConverted
	return outcome, nil
}

// Resume adopts an existing processed directory instead of re-converting.
// The frame count is deliberately not validated against the RAW count; a
// stale or partial batch is assembled as-is. A mismatch is only noted in
// the debug sink.
func (s *Sequencer) Resume(inputDir string) error {
	if err := s.require(domain.StateNotStarted, "resume"); err != nil {
		return err
	}

	frameDir := filepath.Join(inputDir, ProcessedDirName)
	exists, err := s.FS.Exists(frameDir)
	if err != nil || !exists {
		s.state = domain.StateFailed
		return apperrors.Wrap(apperrors.InputMissing, "resume", frameDir,
			fmt.Errorf("no prior processed directory"))
	}

	frames, rawFiles := s.countFrames(frameDir), s.countRaw(inputDir)
	if frames != rawFiles {
		s.Logger.Debug("resume frame count differs from RAW count",
			slog.Int("frames", frames),
			slog.Int("raw_files", rawFiles))
	}

	s.inputDir = inputDir
	s.frameDir = frameDir
	s.state = domain.StateConverted
	s.Logger.Info(fmt.Sprintf("Reusing %d existing frames in %s", frames, frameDir))
	return nil
}

// AssembleFlat builds the flat video from the processed frames. The
// format decides both the container extension and the encoder variant.
func (s *Sequencer) AssembleFlat(ctx context.Context, fps int, format, profile string) (string, error) {
	if err := s.require(domain.StateConverted, "assemble"); err != nil {
		return "", err
	}

	if s.countFrames(s.frameDir) == 0 {
		s.state = domain.StateFailed
		return "", apperrors.Wrap(apperrors.InputMissing, "assemble", s.frameDir,
			fmt.Errorf("no frames to assemble"))
	}

	outputPath := filepath.Join(s.inputDir, FlatVideoBaseName+containerExt(format))
	stop := logging.Measure(s.Logger, "flat video assembly")
	err := s.Encoder.AssembleFlat(ctx, s.frameDir, outputPath, fps, format, profile)
	stop()
	if err != nil {
		s.state = domain.StateFailed
		return "", apperrors.Wrap(apperrors.ExternalTool, "assemble", outputPath, err)
	}

	s.flatPath = outputPath
	s.state = domain.StateFlatVideoReady
	s.Logger.Info(fmt.Sprintf("Flat video created: %s", outputPath))
	return outputPath, nil
}

// ApplyLUT grades the flat video into a second output file. The
// container choice is independent of the flat video's.
func (s *Sequencer) ApplyLUT(ctx context.Context, lutPath, format, profile string) (string, error) {
	if err := s.require(domain.StateFlatVideoReady, "grade"); err != nil {
		return "", err
	}

	outputPath := filepath.Join(s.inputDir, GradedVideoBaseName+containerExt(format))
	stop := logging.Measure(s.Logger, "LUT application")
	err := s.Encoder.ApplyLUT(ctx, s.flatPath, lutPath, outputPath, format, profile)
	stop()
	if err != nil {
		s.state = domain.StateFailed
		return "", apperrors.Wrap(apperrors.ExternalTool, "grade", outputPath, err)
	}

	s.state = domain.StateGradedVideoReady
	s.Logger.Info(fmt.Sprintf("LUT-applied video created: %s", outputPath))
	return outputPath, nil
}

func (s *Sequencer) require(state domain.PipelineState, op string) error {
	if s.state != state {
		return apperrors.Wrap(apperrors.Internal, op, "",
			fmt.Errorf("pipeline state %s, need %s", s.state, state))
	}
	return nil
}

func (s *Sequencer) countFrames(dir string) int {
	entries, err := s.FS.ReadDir(dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && domain.IsJpegExtension(filepath.Ext(entry.Name())) {
			count++
		}
	}
	return count
}

func (s *Sequencer) countRaw(dir string) int {
	entries, err := s.FS.ReadDir(dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && domain.IsRawFile(entry.Name()) {
			count++
		}
	}
	return count
}

func containerExt(format string) string {
	if format == "prores" {
		return ".mov"
	}
	return ".mp4"
}
