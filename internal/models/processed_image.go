package models

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// ProcessedImage is the outcome of a single transform run.
type ProcessedImage struct {
	Status           string `json:"status"`
	File             string `json:"file,omitempty"`
	Filename         string `json:"filename,omitempty"`
	SizeBytes        int64  `json:"size_bytes,omitempty"`
	Format           string `json:"format,omitempty"`
	Width            int    `json:"width,omitempty"`
	Height           int    `json:"height,omitempty"`
	Quality          int    `json:"quality,omitempty"`
	CompressionLevel string `json:"compression_level,omitempty"`
	Optimized        bool   `json:"optimized,omitempty"`
	URL              string `json:"url,omitempty"`
	PublicURL        string `json:"public_url,omitempty"`
	Error            string `json:"error,omitempty"`
	ErrorKind        string `json:"error_kind,omitempty"`
}

func FailedImage(kind string, err error) ProcessedImage {
	return ProcessedImage{
		Status:    StatusFailed,
		Error:     err.Error(),
		ErrorKind: kind,
	}
}
