package app

import (
	"context"
	"image"
	"io/fs"
	"time"

	"github.com/mrjulesfletcher/dng-to-video/internal/domain"
)

type FileSystem interface {
	ReadDir(path string) ([]fs.DirEntry, error)
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) (bool, error)
	MkdirAll(path string, perm fs.FileMode) error
}

// RawDecoder turns one RAW file into a pixel buffer. Implementations are
// stateless; a failed decode is surfaced immediately with no retries.
type RawDecoder interface {
	Decode(ctx context.Context, path string, opts domain.DecodeOptions) (image.Image, error)
}

// FrameEncoder writes a decoded frame to disk as a JPEG.
type FrameEncoder interface {
	Encode(img image.Image, path string) error
}

// VideoEncoder is the external encoder boundary. Both calls block until
// the subprocess exits; cancellation comes in through ctx.
type VideoEncoder interface {
	AssembleFlat(ctx context.Context, frameDir, outputPath string, fps int, format, profile string) error
	ApplyLUT(ctx context.Context, inputVideo, lutPath, outputPath string, format, profile string) error
}

// ExifReader extracts the capture timestamp of a RAW file. Optional; a
// failure only costs the summary's shot time range.
type ExifReader interface {
	DateTimeOriginal(ctx context.Context, path string) (time.Time, error)
}

// ProgressFunc receives the running completed count as results arrive.
// Arrival order is unspecified; the count increments by one per call.
type ProgressFunc func(completed, total int)
