package processor_test

import (
	"errors"
	"image"
	"testing"

	"github.com/phambaophuc/image-task/internal/services/processor"
)

func TestResizeKeepsTargetWidth(t *testing.T) {
	cases := []struct {
		name       string
		srcW, srcH int
		width      int
		wantH      int
	}{
		{name: "landscape", srcW: 1000, srcH: 500, width: 600, wantH: 300},
		{name: "portrait", srcW: 333, srcH: 1000, width: 600, wantH: 1802},
		{name: "upscale", srcW: 100, srcH: 50, width: 800, wantH: 400},
		{name: "thin strip", srcW: 5000, srcH: 1, width: 600, wantH: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := processor.Resize(newTestImage(tc.srcW, tc.srcH), tc.width)
			if err != nil {
				t.Fatalf("Resize failed: %v", err)
			}
			if got := out.Bounds().Dx(); got != tc.width {
				t.Fatalf("width = %d, want %d", got, tc.width)
			}
			if got := out.Bounds().Dy(); got != tc.wantH {
				t.Fatalf("height = %d, want %d", got, tc.wantH)
			}
		})
	}
}

func TestResizePreservesGray(t *testing.T) {
	out, err := processor.Resize(processor.Grayscale(newTestImage(200, 100)), 50)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if _, ok := out.(*image.Gray); !ok {
		t.Fatalf("expected *image.Gray after resize, got %T", out)
	}
}

func TestResizeRejectsEmptySource(t *testing.T) {
	empty := image.NewRGBA(image.Rect(0, 0, 0, 10))
	_, err := processor.Resize(empty, 600)
	if err == nil {
		t.Fatal("expected error for zero-width source")
	}
	if !errors.Is(err, processor.ErrInvalidDimensions) {
		t.Fatalf("expected ErrInvalidDimensions, got %v", err)
	}
	if processor.KindOf(err) != processor.KindInvalidDimensions {
		t.Fatalf("unexpected kind %q", processor.KindOf(err))
	}
}

func TestScaledHeightRejectsNonPositive(t *testing.T) {
	for _, tc := range []struct{ w, h, width int }{{0, 10, 600}, {-4, 10, 600}, {10, 0, 600}, {10, 10, 0}} {
		if _, err := processor.ScaledHeight(tc.w, tc.h, tc.width); !errors.Is(err, processor.ErrInvalidDimensions) {
			t.Fatalf("ScaledHeight(%d, %d, %d) error = %v", tc.w, tc.h, tc.width, err)
		}
	}
}
