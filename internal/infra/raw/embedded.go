package raw

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/jeremytorres/rawparser"

	"github.com/mrjulesfletcher/dng-to-video/internal/app"
	"github.com/mrjulesfletcher/dng-to-video/internal/domain"
)

// EmbeddedDecoder pulls the camera-generated preview JPEG out of the RAW
// container instead of demosaicing. Much faster than a full decode, but
// the look is the camera's, so the decode options beyond HalfSize do not
// apply; the preview is typically already reduced in size.
type EmbeddedDecoder struct{}

func (EmbeddedDecoder) Decode(ctx context.Context, path string, _ domain.DecodeOptions) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser, _ := rawparser.NewNefParser(true)

	tmpDir, err := os.MkdirTemp("", "dng2video-embedded-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	info := &rawparser.RawFileInfo{
		File:    path,
		Quality: 100,
		DestDir: tmpDir + string(os.PathSeparator),
	}
	if _, err := parser.ProcessFile(info); err != nil {
		return nil, fmt.Errorf("extract preview: %w", err)
	}

	extracted := filepath.Join(tmpDir, filepath.Base(path)+"_extracted.jpg")
	file, err := os.Open(extracted)
	if err != nil {
		return nil, fmt.Errorf("open extracted preview: %w", err)
	}
	defer file.Close()

	img, err := jpeg.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode extracted preview: %w", err)
	}
	return img, nil
}

// NewDecoder picks the backend implementation for the configured option.
func NewDecoder(backend domain.DecodeBackend, dcrawCommand string) app.RawDecoder {
	if backend == domain.BackendEmbedded {
		return EmbeddedDecoder{}
	}
	return DcrawDecoder{Command: dcrawCommand}
}
