package extraction_engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/markdave123-py/pagetext/internal/core"
	"github.com/markdave123-py/pagetext/internal/models"
)

// processPage turns one page into exactly one outcome. It never panics and never returns an error:
// every failure is folded into a PageFailed outcome.
func (e *Extractor) processPage(ctx context.Context, page core.Page, cfg ExtractionConfig, workDir string, log zerolog.Logger) (out models.PageOutcome) {
	idx := page.Index()
	plog := log.With().Int("page", idx).Logger()

	defer func() {
		if r := recover(); r != nil {
			plog.Error().Interface("panic", r).Msg("page task panicked")
			out = failedOutcome(idx, fmt.Errorf("page %d: panic: %v", idx, r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return failedOutcome(idx, err)
	}

	if text, ok := stripText(page, plog); ok {
		return models.PageOutcome{Index: idx, Text: text, Status: models.PageStripped}
	}

	img, err := rasterize(page, cfg.DPI, cfg.ColorMode, workDir)
	if err != nil {
		plog.Error().Err(err).Msg("rasterization failed, skipping page")
		return failedOutcome(idx, err)
	}
	defer func() {
		if err := img.Release(); err != nil {
			plog.Warn().Err(err).Str("image", img.Path).Msg("failed to remove page image")
		}
	}()

	text, err := e.engine.Recognize(ctx, core.OCRRequest{
		Page:      idx,
		ImagePath: img.Path,
		Language:  cfg.Language,
		DataPath:  cfg.DataPath,
		DPI:       cfg.DPI,
	})
	if err != nil {
		err = core.OCRError(fmt.Sprintf("recognize page %d", idx), err)
		plog.Error().Err(err).Str("engine", e.engine.Name()).Msg("OCR failed, skipping page")
		return failedOutcome(idx, err)
	}

	plog.Debug().Int("text_length", len(text)).Msg("page recognized")
	return models.PageOutcome{Index: idx, Text: text, Status: models.PageOCRed}
}

// stripText returns the page's embedded text trimmed of surrounding whitespace.
// ok is false when the page has no usable text and must go through OCR.
func stripText(page core.Page, log zerolog.Logger) (string, bool) {
	raw, err := safeText(page)
	if err != nil {
		log.Warn().Err(core.StripError("text stripping failed", err)).Msg("falling back to OCR")
		return "", false
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		log.Debug().Msg("no embedded text, falling back to OCR")
		return "", false
	}
	return text, true
}

func safeText(page core.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return page.Text()
}
