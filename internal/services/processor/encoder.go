package processor

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-task/internal/models"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultFormat is used when the source format cannot be written back.
const DefaultFormat = imaging.JPEG

const (
	HighQuality       = 95
	CompressedQuality = 60

	fullPalette       = 256
	compressedPalette = 128
)

var formatExtensions = map[imaging.Format]string{
	imaging.JPEG: ".jpg",
	imaging.PNG:  ".png",
	imaging.GIF:  ".gif",
	imaging.BMP:  ".bmp",
	imaging.TIFF: ".tiff",
}

// EncodeParams is the fully resolved encoder configuration for one output.
type EncodeParams struct {
	Format           imaging.Format
	Optimize         bool
	Quality          int
	CompressionLevel png.CompressionLevel
	NumColors        int
	TIFFCompression  tiff.CompressionType
	Predictor        bool
}

// ResolveFormat picks the output format. An empty or "original" target keeps
// the detected source format when it can be encoded, else DefaultFormat.
func ResolveFormat(sourceFormat, target string) (imaging.Format, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" || target == models.FormatOriginal {
		f, err := imaging.FormatFromExtension(sourceFormat)
		if err != nil {
			return DefaultFormat, nil
		}
		return f, nil
	}

	f, err := imaging.FormatFromExtension(target)
	if err != nil {
		return 0, newError(KindUnsupportedFormat, "resolve format",
			fmt.Errorf("%w %q", ErrUnsupportedFormat, target))
	}
	return f, nil
}

// ResolveParams tunes the encoder per format family: lossy formats get a
// quality target, lossless ones a compression level.
func ResolveParams(format imaging.Format, compress bool) EncodeParams {
	p := EncodeParams{
		Format:           format,
		Optimize:         compress,
		Quality:          HighQuality,
		CompressionLevel: png.BestSpeed,
		NumColors:        fullPalette,
		TIFFCompression:  tiff.Uncompressed,
	}
	if compress {
		p.Quality = CompressedQuality
		p.CompressionLevel = png.BestCompression
		p.NumColors = compressedPalette
		p.TIFFCompression = tiff.Deflate
		p.Predictor = true
	}
	return p
}

// Lossy reports whether Quality applies to the format.
func (p EncodeParams) Lossy() bool {
	return p.Format == imaging.JPEG
}

// LevelName describes the compression setting of lossless formats.
func (p EncodeParams) LevelName() string {
	switch p.Format {
	case imaging.PNG:
		if p.CompressionLevel == png.BestCompression {
			return "best_compression"
		}
		return "best_speed"
	case imaging.TIFF:
		if p.TIFFCompression == tiff.Deflate {
			return "deflate"
		}
		return "none"
	case imaging.GIF:
		return fmt.Sprintf("%d_colors", p.NumColors)
	}
	return ""
}

func Encode(w io.Writer, img image.Image, p EncodeParams) error {
	var err error
	switch p.Format {
	case imaging.JPEG:
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(p.Quality))
	case imaging.PNG:
		err = imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(p.CompressionLevel))
	case imaging.GIF:
		err = imaging.Encode(w, img, imaging.GIF, imaging.GIFNumColors(p.NumColors))
	case imaging.BMP:
		err = bmp.Encode(w, img)
	case imaging.TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: p.TIFFCompression, Predictor: p.Predictor})
	default:
		return newError(KindUnsupportedFormat, "encode image",
			fmt.Errorf("%w %q", ErrUnsupportedFormat, p.Format.String()))
	}
	if err != nil {
		return newError(KindEncode, "encode image", err)
	}
	return nil
}

// FormatName is the lowercase name reported to clients.
func FormatName(f imaging.Format) string {
	return strings.ToLower(f.String())
}

// OutputFilename keeps the extension of name when it already denotes format,
// otherwise swaps it for the canonical one.
func OutputFilename(name string, format imaging.Format) string {
	ext := filepath.Ext(name)
	if f, err := imaging.FormatFromExtension(ext); err == nil && f == format {
		return name
	}
	return strings.TrimSuffix(name, ext) + formatExtensions[format]
}
