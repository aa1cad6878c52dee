package processor

import (
	"errors"
	"fmt"
)

// Kind classifies why a transform failed.
type Kind string

const (
	KindDecode            Kind = "decode"
	KindInvalidDimensions Kind = "invalid_dimensions"
	KindUnsupportedFormat Kind = "unsupported_format"
	KindEncode            Kind = "encode"
	KindIO                Kind = "io"
	KindUnknown           Kind = "unknown"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInvalidDimensions = errors.New("invalid image dimensions")
	ErrImageTooLarge     = errors.New("image too large")
)

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the classification carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return KindUnsupportedFormat
	case errors.Is(err, ErrInvalidDimensions):
		return KindInvalidDimensions
	}
	return KindUnknown
}
