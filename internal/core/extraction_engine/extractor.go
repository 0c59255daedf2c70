package extraction_engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/markdave123-py/pagetext/internal/core"
	"github.com/markdave123-py/pagetext/internal/core/workerpool"
	"github.com/markdave123-py/pagetext/internal/models"
)

// Extractor runs the page-level pipeline: split, strip or rasterize+OCR, aggregate.
//
// loader:   turns a file into a core.Document.
// engine:   OCR capability used for pages without native text.
// pool:     shared, explicitly owned worker pool; the Extractor never starts or stops it.
// defaults: settings applied to zero fields of each call's ExtractionConfig.
// tempRoot: parent directory of the per-call work directories holding page images.
type Extractor struct {
	loader   core.DocumentLoader
	engine   core.OCREngine
	pool     *workerpool.Pool
	defaults ExtractionConfig
	tempRoot string
	logger   zerolog.Logger
}

// NewExtractor wires an Extractor. The pool must be started by the caller.
func NewExtractor(loader core.DocumentLoader, engine core.OCREngine, pool *workerpool.Pool, defaults ExtractionConfig, tempRoot string, logger zerolog.Logger) *Extractor {
	return &Extractor{
		loader:   loader,
		engine:   engine,
		pool:     pool,
		defaults: defaults.withDefaults(),
		tempRoot: tempRoot,
		logger:   logger.With().Str("component", "extractor").Logger(),
	}
}

// ExtractFile loads the document at path and extracts it. The document is closed before returning.
func (e *Extractor) ExtractFile(ctx context.Context, path string, cfg ExtractionConfig) (*models.ExtractedDocument, error) {
	doc, err := e.loader.Load(ctx, path)
	if err != nil {
		if !core.IsDocumentError(err) && ctx.Err() == nil {
			err = core.LoadError("load document", err)
		}
		return nil, err
	}
	defer func() {
		if err := doc.Close(); err != nil {
			e.logger.Warn().Err(err).Msg("failed to close document")
		}
	}()

	return e.Extract(ctx, doc, cfg)
}

// Extract converts every page of doc to text and returns them joined in page order.
//
// Only document-level failures (split) are returned as errors; page failures are recorded as
// PageFailed outcomes and contribute an empty string. The call returns after every page task
// has finished. If ctx ends first, undispatched pages fail and ctx.Err() is returned.
func (e *Extractor) Extract(ctx context.Context, doc core.Document, cfg ExtractionConfig) (*models.ExtractedDocument, error) {
	cfg = cfg.Merge(e.defaults)
	id := uuid.NewString()
	log := e.logger.With().Str("extraction_id", id).Logger()
	start := time.Now()

	pages, err := splitPages(doc)
	if err != nil {
		log.Error().Err(err).Msg("failed to split document")
		return nil, err
	}
	log.Info().
		Int("pages", len(pages)).
		Str("language", cfg.Language).
		Int("dpi", cfg.DPI).
		Int("max_workers", cfg.MaxWorkers).
		Msg("split document")

	workDir, err := os.MkdirTemp(e.tempRoot, "extract-"+id+"-")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			log.Warn().Err(err).Str("dir", workDir).Msg("failed to remove work dir")
		}
	}()

	results := e.dispatch(ctx, pages, cfg, workDir, log)
	result := aggregate(results, len(pages))

	log.Info().
		Int("text_length", len(result.Text)).
		Int("stripped", result.CountByStatus(models.PageStripped)).
		Int("ocr", result.CountByStatus(models.PageOCRed)).
		Int("failed", result.CountByStatus(models.PageFailed)).
		Dur("took", time.Since(start)).
		Msg("extraction finished")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// dispatch submits one task per page and returns the channel every outcome lands on.
// Exactly len(pages) outcomes are sent: either by the task or, when a page cannot be
// dispatched, by dispatch itself.
func (e *Extractor) dispatch(ctx context.Context, pages []core.Page, cfg ExtractionConfig, workDir string, log zerolog.Logger) <-chan models.PageOutcome {
	results := make(chan models.PageOutcome, len(pages))
	inflight := semaphore.NewWeighted(int64(cfg.MaxWorkers))

	for _, page := range pages {
		if err := inflight.Acquire(ctx, 1); err != nil {
			results <- failedOutcome(page.Index(), err)
			continue
		}

		task := func() {
			defer inflight.Release(1)
			results <- e.processPage(ctx, page, cfg, workDir, log)
		}
		if err := e.pool.Submit(ctx, task); err != nil {
			inflight.Release(1)
			log.Error().Err(err).Int("page", page.Index()).Msg("page not dispatched")
			results <- failedOutcome(page.Index(), err)
		}
	}
	return results
}

func failedOutcome(index int, err error) models.PageOutcome {
	return models.PageOutcome{Index: index, Status: models.PageFailed, Err: err}
}
