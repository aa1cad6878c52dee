package processor

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// DefaultTargetWidth is the width every resized output gets.
const DefaultTargetWidth = 600

// ScaledHeight keeps the aspect ratio of a srcW x srcH image at width.
func ScaledHeight(srcW, srcH, width int) (int, error) {
	if srcW <= 0 || srcH <= 0 {
		return 0, fmt.Errorf("%w: source is %dx%d", ErrInvalidDimensions, srcW, srcH)
	}
	if width <= 0 {
		return 0, fmt.Errorf("%w: target width %d", ErrInvalidDimensions, width)
	}
	h := int(math.Round(float64(srcH) * float64(width) / float64(srcW)))
	if h < 1 {
		h = 1
	}
	return h, nil
}

// Resize scales img to width with a Lanczos filter. Grayscale input stays
// single-channel.
func Resize(img image.Image, width int) (image.Image, error) {
	if err := ValidateDimensions(img); err != nil {
		return nil, newError(KindInvalidDimensions, "resize", err)
	}
	b := img.Bounds()
	height, err := ScaledHeight(b.Dx(), b.Dy(), width)
	if err != nil {
		return nil, newError(KindInvalidDimensions, "resize", err)
	}

	resized := imaging.Resize(img, width, height, imaging.Lanczos)
	if _, ok := img.(*image.Gray); ok {
		return toGray(resized), nil
	}
	return resized, nil
}
