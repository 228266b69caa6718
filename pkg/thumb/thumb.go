// Package thumb turns fetched image bytes into a small, correctly oriented
// preview image plus the metadata shown next to it.
package thumb

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"time"

	"github.com/disintegration/imaging"
)

// MaxSize bounds both sides of a preview thumbnail, in pixels.
const MaxSize = 64

// MaxPixels caps the declared width x height Decode accepts.
const MaxPixels = 50_000_000

// ErrTooLarge is returned for images whose header declares more than
// MaxPixels pixels.
var ErrTooLarge = errors.New("image too large")

// Picture is a decoded preview.
type Picture struct {
	Format string
	Width  int // original dimensions, after orientation
	Height int
	Thumb  image.Image

	Camera string
	Taken  *time.Time
}

// Decode reads the image header, EXIF block and pixels of data and builds
// a thumbnail that fits within maxSize x maxSize. A maxSize <= 0 uses
// MaxSize.
func Decode(data []byte, maxSize int) (*Picture, error) {
	if maxSize <= 0 {
		maxSize = MaxSize
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	meta := ExtractExif(bytes.NewReader(data))

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	img = applyOrientation(img, meta.Orientation)

	p := &Picture{
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Thumb:  imaging.Fit(img, maxSize, maxSize, imaging.Lanczos),
		Camera: meta.Camera(),
		Taken:  meta.DateTaken,
	}
	if meta.Orientation >= 5 {
		p.Width, p.Height = p.Height, p.Width
	}
	return p, nil
}

// applyOrientation transforms an image according to EXIF orientation value.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
