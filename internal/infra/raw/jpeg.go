package raw

import (
	"image"
	"image/jpeg"
	"os"
)

const defaultJPEGQuality = 95

// JPEGEncoder writes decoded frames to disk, overwriting any frame left
// by a previous run of the same batch.
type JPEGEncoder struct {
	// Quality in [1,100]; zero means the package default.
	Quality int
}

func (e JPEGEncoder) Encode(img image.Image, path string) error {
	quality := e.Quality
	if quality <= 0 {
		quality = defaultJPEGQuality
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: quality}); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
