package cmd

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	// Formats beyond the ones imaging registers.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// loadImage decodes an image file and applies its EXIF orientation.
func loadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}
	return img, nil
}
