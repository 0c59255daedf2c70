//go:build !ocr

package ocr

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/markdave123-py/pagetext/internal/core"
)

// Enabled reports whether Tesseract support is compiled in.
const Enabled = false

// Tesseract is the placeholder used when the binary is built without the "ocr" tag.
type Tesseract struct{}

var _ core.OCREngine = (*Tesseract)(nil)

func NewTesseract(logger zerolog.Logger) *Tesseract {
	logger.Warn().Msg("built without OCR support, scanned pages will produce no text")
	return &Tesseract{}
}

func (t *Tesseract) Name() string {
	return EngineName
}

func (t *Tesseract) Recognize(ctx context.Context, req core.OCRRequest) (string, error) {
	return "", ErrOCRNotEnabled
}
