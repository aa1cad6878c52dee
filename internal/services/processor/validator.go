package processor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Source is a decoded upload together with the format its decoder reported.
type Source struct {
	Image  image.Image
	Format string
}

// DefaultMaxPixels caps width*height of an upload before any pixel buffer
// is allocated. Headers can claim sizes far beyond available memory.
const DefaultMaxPixels int64 = 2 * 89_478_485

func Decode(r io.Reader) (Source, error) {
	return DecodeLimited(r, DefaultMaxPixels)
}

// DecodeLimited reads the header first and refuses images above maxPixels.
// A maxPixels of zero or less disables the check.
func DecodeLimited(r io.Reader, maxPixels int64) (Source, error) {
	var header bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &header))
	if err != nil {
		return Source{}, newError(KindDecode, "decode header", err)
	}
	if maxPixels > 0 {
		if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > maxPixels {
			return Source{}, newError(KindDecode, "decode header",
				fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, maxPixels))
		}
	}

	img, format, err := image.Decode(io.MultiReader(&header, r))
	if err != nil {
		return Source{}, newError(KindDecode, "decode image", err)
	}
	return Source{Image: img, Format: format}, nil
}

// ValidateDimensions rejects images that cannot be scaled.
func ValidateDimensions(img image.Image) error {
	if img == nil {
		return fmt.Errorf("%w: no image", ErrInvalidDimensions)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("%w: source is %dx%d", ErrInvalidDimensions, b.Dx(), b.Dy())
	}
	return nil
}
