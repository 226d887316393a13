package imageutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"

	"github.com/anthonynsimon/bild/transform"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

const (
	// MaxUploadSize caps what we are willing to forward to the backend.
	MaxUploadSize = 10 * 1024 * 1024

	// MaxDimension is the longest edge we submit; the serving side resizes to
	// its own input shape anyway, so shipping an 8000px photo is wasted bytes.
	MaxDimension = 2048

	jpegQuality = 95
)

var (
	ErrTooLarge          = errors.New("image exceeds maximum upload size")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// NormalizeJPEG validates the raw upload and re-encodes it as an RGB JPEG,
// mirroring what the serving backend's image handler expects. Alpha channels
// are flattened onto white and oversized rasters are scaled down.
func NormalizeJPEG(data []byte) ([]byte, error) {
	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}

	img, err := decode(data)
	if err != nil {
		return nil, err
	}

	img = clampSize(img)
	img = flatten(img)

	var output bytes.Buffer
	if err := jpeg.Encode(&output, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return output.Bytes(), nil
}

func decode(data []byte) (image.Image, error) {
	mtype := mimetype.Detect(data)
	reader := bytes.NewReader(data)

	switch {
	case mtype.Is("image/jpeg"):
		return jpeg.Decode(reader)
	case mtype.Is("image/png"):
		return png.Decode(reader)
	case mtype.Is("image/webp"):
		return webp.Decode(reader)
	case mtype.Is("image/bmp"):
		return bmp.Decode(reader)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mtype.String())
	}
}

func clampSize(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= MaxDimension && h <= MaxDimension {
		return img
	}

	if w >= h {
		h = h * MaxDimension / w
		w = MaxDimension
	} else {
		w = w * MaxDimension / h
		h = MaxDimension
	}

	return transform.Resize(img, w, h, transform.Linear)
}

func flatten(img image.Image) image.Image {
	bounds := img.Bounds()
	rgb := image.NewRGBA(bounds)
	draw.Draw(rgb, bounds, image.White, image.Point{}, draw.Src)
	draw.Draw(rgb, bounds, img, bounds.Min, draw.Over)
	return rgb
}
