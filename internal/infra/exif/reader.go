// Package exif reads capture timestamps from RAW files. DNG is a TIFF
// container, so the standard EXIF IFD walk applies directly.
package exif

import (
	"context"
	"errors"
	"os"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"
)

type Reader struct{}

// DateTimeOriginal returns the capture time recorded by the camera,
// preferring DateTimeOriginal over the generic DateTime tag.
func (Reader) DateTimeOriginal(ctx context.Context, path string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer file.Close()

	meta, err := goexif.Decode(file)
	if err != nil {
		return time.Time{}, err
	}

	if tag, err := meta.Get(goexif.DateTimeOriginal); err == nil {
		if raw, err := tag.StringVal(); err == nil {
			if parsed, err := time.Parse("2006:01:02 15:04:05", raw); err == nil {
				return parsed, nil
			}
		}
	}
	if parsed, err := meta.DateTime(); err == nil {
		return parsed, nil
	}
	return time.Time{}, errors.New("no capture timestamp")
}
