package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	apperrors "github.com/mrjulesfletcher/dng-to-video/internal/errors"
	"github.com/mrjulesfletcher/dng-to-video/internal/logging"

	"github.com/mrjulesfletcher/dng-to-video/internal/domain"
)

// ProcessedDirName is the subdirectory of the input directory that
// receives the converted frames.
const ProcessedDirName = "processed"

// FrameName returns the deterministic output filename for a sequence
// index. The 5-digit width keeps lexicographic and numeric order aligned.
func FrameName(index int) string {
	return fmt.Sprintf("frame_%05d.jpg", index)
}

// Converter fans RAW conversion jobs out across a bounded worker pool and
// folds the results into a BatchOutcome. Workers only ever report through
// ConversionResult values; the aggregator loop is the single owner of the
// running counters.
type Converter struct {
	FS      FileSystem
	Decoder RawDecoder
	Encoder FrameEncoder
	Exif    ExifReader

	// Workers bounds the pool; zero means runtime.NumCPU().
	Workers    int
	Logger     *slog.Logger
	OnProgress ProgressFunc
}

// ConvertAll converts every RAW file in inputDir into
// <inputDir>/processed/frame_NNNNN.jpg. Individual job failures are
// recorded, not raised. A nil outcome with nil error means no RAW files
// were found.
func (c *Converter) ConvertAll(ctx context.Context, inputDir string, opts domain.DecodeOptions) (*domain.BatchOutcome, error) {
	if c.FS == nil || c.Decoder == nil || c.Encoder == nil {
		return nil, apperrors.Wrap(apperrors.Internal, "convert", inputDir, fmt.Errorf("converter requires FS, Decoder and Encoder"))
	}
	logger := c.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	if _, err := c.FS.Stat(inputDir); err != nil {
		return nil, apperrors.Wrap(apperrors.InputMissing, "stat", inputDir, err)
	}

	outputDir := filepath.Join(inputDir, ProcessedDirName)
	jobs, err := c.discover(inputDir, outputDir, opts)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		logger.Info(fmt.Sprintf("No RAW files found in %s", inputDir))
		return nil, nil
	}
	logger.Info(fmt.Sprintf("Found %d RAW files.", len(jobs)))

	if err := c.FS.MkdirAll(outputDir, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.IOFailure, "mkdir", outputDir, err)
	}

	workerCount := c.Workers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if workerCount < 1 {
		workerCount = 1
	}
	logger.Debug("starting conversion pool",
		slog.Int("workers", workerCount),
		slog.Int("jobs", len(jobs)),
		slog.String("output_dir", outputDir))

	start := time.Now()
	queue := make(chan domain.ConversionJob)
	results := make(chan domain.ConversionResult)

	for i := 0; i < workerCount; i++ {
		go func() {
			for job := range queue {
				results <- c.runJob(ctx, job)
			}
		}()
	}

	go func() {
		defer close(queue)
		for _, job := range jobs {
			queue <- job
		}
	}()

	outcome := &domain.BatchOutcome{
		OutputDir: outputDir,
		Total:     len(jobs),
	}
	for completed := 1; completed <= len(jobs); completed++ {
		res := <-results
		outcome.Record(res)
		if res.Failed() {
			logger.Error(fmt.Sprintf("Failed to process: %s", res.Job.SourcePath))
			logger.Debug("job failed",
				slog.String("source", res.Job.SourcePath),
				slog.Any("error", res.Err))
		} else {
			logger.Debug("job finished",
				slog.String("source", res.Job.SourcePath),
				slog.String("output", res.OutputPath))
		}
		if c.OnProgress != nil {
			c.OnProgress(completed, len(jobs))
		}
	}

	outcome.Elapsed = time.Since(start)
	avg := outcome.Elapsed / time.Duration(outcome.Total)
	logger.Info(fmt.Sprintf("Processed %d frames in %.2fs (avg %.2fs/frame)",
		outcome.Total, outcome.Elapsed.Seconds(), avg.Seconds()))
	return outcome, nil
}

// discover lists inputDir, keeps RAW files in any letter case, and
// assigns sequence indices in lexicographic filename order.
func (c *Converter) discover(inputDir, outputDir string, opts domain.DecodeOptions) ([]domain.ConversionJob, error) {
	entries, err := c.FS.ReadDir(inputDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.InputMissing, "readdir", inputDir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !domain.IsRawFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	jobs := make([]domain.ConversionJob, 0, len(names))
	for idx, name := range names {
		jobs = append(jobs, domain.ConversionJob{
			SourcePath: filepath.Join(inputDir, name),
			Index:      idx,
			OutputPath: filepath.Join(outputDir, FrameName(idx)),
			Options:    opts,
		})
	}
	return jobs, nil
}

// runJob executes one decode+encode, converting any failure, including a
// worker panic, into a ConversionResult.
func (c *Converter) runJob(ctx context.Context, job domain.ConversionJob) (res domain.ConversionResult) {
	res.Job = job
	defer func() {
		if r := recover(); r != nil {
			res = domain.ConversionResult{
				Job: job,
				Err: apperrors.Wrap(apperrors.DecodeFailure, "convert", job.SourcePath, fmt.Errorf("worker panic: %v", r)),
			}
		}
	}()

	img, err := c.Decoder.Decode(ctx, job.SourcePath, job.Options)
	if err != nil {
		res.Err = apperrors.Wrap(apperrors.DecodeFailure, "decode", job.SourcePath, err)
		return res
	}
	if err := c.Encoder.Encode(img, job.OutputPath); err != nil {
		res.Err = apperrors.Wrap(apperrors.IOFailure, "encode", job.OutputPath, err)
		return res
	}
	res.OutputPath = job.OutputPath

	if c.Exif != nil {
		if taken, err := c.Exif.DateTimeOriginal(ctx, job.SourcePath); err == nil {
			res.TakenAt = taken
		}
	}
	return res
}
