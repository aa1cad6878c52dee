package models

const (
	FormatOriginal = "original"
	FormatJPEG     = "jpeg"
	FormatPNG      = "png"
	FormatGIF      = "gif"
	FormatBMP      = "bmp"
	FormatTIFF     = "tiff"
)

// TransformOptions selects the edits applied to an upload.
type TransformOptions struct {
	Grayscale    bool   `json:"grayscale"`
	Resize       bool   `json:"resize"`
	TargetFormat string `json:"target_format"`
	Compress     bool   `json:"compress"`
}

// DefaultTransformOptions matches what the service did before options existed:
// a grayscale, shrunk copy in the source format.
func DefaultTransformOptions() TransformOptions {
	return TransformOptions{
		Grayscale:    true,
		Resize:       true,
		TargetFormat: FormatOriginal,
	}
}
