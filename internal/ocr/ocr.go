// Package ocr turns receipt images into plain text. Image decoding and
// normalisation live here; the recognizer itself sits behind Engine so the
// cgo-backed tesseract binding stays in its own package.
package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"go.uber.org/zap"
)

// ErrUnsupportedImage is returned when the upload cannot be decoded as an image.
var ErrUnsupportedImage = errors.New("unsupported image")

// Engine recognizes text in a PNG-encoded image.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, png []byte) (string, error)
}

type Extractor struct {
	engine Engine
	logger *zap.Logger
}

func NewExtractor(engine Engine, logger *zap.Logger) *Extractor {
	return &Extractor{
		engine: engine,
		logger: logger,
	}
}

// ExtractText decodes data as an image and runs OCR on it. The engine output
// is returned verbatim; an empty string is a valid result.
func (e *Extractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	normalized, format, err := Normalize(data)
	if err != nil {
		return "", err
	}

	text, err := e.engine.Recognize(ctx, normalized)
	if err != nil {
		return "", fmt.Errorf("failed to recognize text with %s: %w", e.engine.Name(), err)
	}

	e.logger.Info("OCR extraction completed",
		zap.String("engine", e.engine.Name()),
		zap.String("format", format),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}

// Normalize decodes any supported format (png, jpeg, gif, bmp, tiff, webp)
// and re-encodes it as PNG, which every tesseract build can read.
func Normalize(data []byte) ([]byte, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty payload", ErrUnsupportedImage)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	if format == "png" {
		return data, format, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, format, fmt.Errorf("failed to encode %s as png: %w", format, err)
	}
	return buf.Bytes(), format, nil
}
