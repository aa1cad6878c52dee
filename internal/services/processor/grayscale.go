package processor

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Grayscale returns a single-channel luminance copy of img. A *image.Gray
// input is returned as an unchanged copy, so applying it twice is a no-op.
func Grayscale(img image.Image) image.Image {
	if gray, ok := img.(*image.Gray); ok {
		return cloneGray(gray)
	}
	return toGray(imaging.Grayscale(img))
}

// toGray keeps the red channel of an imaging result whose R, G and B are
// already equal. Alpha is dropped without premultiplying, so transparent
// pixels keep their luminance.
func toGray(src *image.NRGBA) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	gray := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x := range dst {
			dst[x] = row[x*4]
		}
	}
	return gray
}

func cloneGray(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
