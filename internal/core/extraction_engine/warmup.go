package extraction_engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/markdave123-py/pagetext/internal/core/samplepdf"
	"github.com/markdave123-py/pagetext/internal/models"
)

// WarmUp runs one extraction over a generated two-page document, one page with a text layer and
// one scanned, so that the PDF and OCR libraries have loaded their resources before real traffic.
func (e *Extractor) WarmUp(ctx context.Context) error {
	start := time.Now()

	f, err := os.CreateTemp(e.tempRoot, "warmup-*.pdf")
	if err != nil {
		return fmt.Errorf("create warm-up document: %w", err)
	}
	path := f.Name()
	defer func() {
		if err := os.Remove(path); err != nil {
			e.logger.Warn().Err(err).Str("path", path).Msg("failed to remove warm-up document")
		}
	}()

	err = samplepdf.Write(f,
		samplepdf.Page{Text: "pagetext warm up"},
		samplepdf.Page{Text: "WARM UP", Scanned: true},
	)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write warm-up document: %w", err)
	}

	doc, err := e.ExtractFile(ctx, path, ExtractionConfig{MaxWorkers: 2})
	if err != nil {
		return fmt.Errorf("warm-up extraction: %w", err)
	}

	e.logger.Info().
		Int("pages", doc.PageCount).
		Int("failed", doc.CountByStatus(models.PageFailed)).
		Dur("took", time.Since(start)).
		Msg("warm-up finished")
	return nil
}
