package processor

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/phambaophuc/image-task/internal/models"
)

type ImageProcessor struct {
	outputDir   string
	targetWidth int
	maxPixels   int64
}

func NewImageProcessor(outputDir string, targetWidth int) *ImageProcessor {
	if targetWidth <= 0 {
		targetWidth = DefaultTargetWidth
	}
	return &ImageProcessor{
		outputDir:   outputDir,
		targetWidth: targetWidth,
		maxPixels:   DefaultMaxPixels,
	}
}

// WithMaxPixels overrides the decoded size limit. Non-positive values keep
// the current limit.
func (p *ImageProcessor) WithMaxPixels(n int64) *ImageProcessor {
	if n > 0 {
		p.maxPixels = n
	}
	return p
}

func (p *ImageProcessor) TargetWidth() int {
	return p.targetWidth
}

// Transform applies the requested edits in fixed order: grayscale, resize,
// then format and encoder resolution. src is never modified.
func (p *ImageProcessor) Transform(src Source, opts models.TransformOptions) (image.Image, EncodeParams, error) {
	img := src.Image
	if err := ValidateDimensions(img); err != nil {
		return nil, EncodeParams{}, newError(KindInvalidDimensions, "transform", err)
	}

	if opts.Grayscale {
		img = Grayscale(img)
	}

	if opts.Resize {
		resized, err := Resize(img, p.targetWidth)
		if err != nil {
			return nil, EncodeParams{}, err
		}
		img = resized
	}

	format, err := ResolveFormat(src.Format, opts.TargetFormat)
	if err != nil {
		return nil, EncodeParams{}, err
	}

	return img, ResolveParams(format, opts.Compress), nil
}

// Process runs the whole pipeline for the file at sourcePath and writes the
// output under the processor's output directory. Failures never escape as
// errors or panics; they are reported in the returned result.
func (p *ImageProcessor) Process(sourcePath, outputName string, opts models.TransformOptions) (result models.ProcessedImage) {
	defer func() {
		if r := recover(); r != nil {
			result = models.FailedImage(string(KindUnknown), fmt.Errorf("transform panicked: %v", r))
		}
	}()

	res, err := p.process(sourcePath, outputName, opts)
	if err != nil {
		return models.FailedImage(string(KindOf(err)), err)
	}
	return res
}

func (p *ImageProcessor) process(sourcePath, outputName string, opts models.TransformOptions) (models.ProcessedImage, error) {
	file, err := os.Open(sourcePath)
	if err != nil {
		return models.ProcessedImage{}, newError(KindIO, "open source", err)
	}
	defer file.Close()

	src, err := DecodeLimited(file, p.maxPixels)
	if err != nil {
		return models.ProcessedImage{}, err
	}

	img, params, err := p.Transform(src, opts)
	if err != nil {
		return models.ProcessedImage{}, err
	}

	buf := &bytes.Buffer{}
	if err := Encode(buf, img, params); err != nil {
		return models.ProcessedImage{}, err
	}

	filename := OutputFilename(outputName, params.Format)
	outputPath := filepath.Join(p.outputDir, filename)
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return models.ProcessedImage{}, newError(KindIO, "write output", err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return models.ProcessedImage{}, newError(KindIO, "stat output", err)
	}

	b := img.Bounds()
	res := models.ProcessedImage{
		Status:           models.StatusSuccess,
		File:             outputPath,
		Filename:         filename,
		SizeBytes:        info.Size(),
		Format:           FormatName(params.Format),
		Width:            b.Dx(),
		Height:           b.Dy(),
		CompressionLevel: params.LevelName(),
		Optimized:        params.Optimize,
	}
	if params.Lossy() {
		res.Quality = params.Quality
	}
	return res, nil
}
