//go:build ocr

package ocr

import (
	"context"
	"fmt"
	"strconv"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"

	"github.com/markdave123-py/pagetext/internal/core"
)

// Enabled reports whether Tesseract support is compiled in.
const Enabled = true

// Tesseract recognizes page images with libtesseract. Every request gets its own client, so
// calls from different goroutines never share engine state.
type Tesseract struct {
	logger zerolog.Logger
}

var _ core.OCREngine = (*Tesseract)(nil)

func NewTesseract(logger zerolog.Logger) *Tesseract {
	return &Tesseract{logger: logger.With().Str("component", "ocr").Logger()}
}

func (t *Tesseract) Name() string {
	return EngineName
}

func (t *Tesseract) Recognize(ctx context.Context, req core.OCRRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if req.DataPath != "" {
		if err := client.SetTessdataPrefix(req.DataPath); err != nil {
			return "", fmt.Errorf("set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(req.Language); err != nil {
		return "", fmt.Errorf("set language %q: %w", req.Language, err)
	}
	if req.DPI > 0 {
		if err := client.SetVariable("user_defined_dpi", strconv.Itoa(req.DPI)); err != nil {
			return "", fmt.Errorf("set dpi: %w", err)
		}
	}
	if err := client.SetImage(req.ImagePath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}

	t.logger.Debug().Int("page", req.Page).Str("language", req.Language).Int("text_length", len(text)).Msg("recognized page")
	return text, nil
}
