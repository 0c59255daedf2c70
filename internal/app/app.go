// internal/app/app.go
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/markdave123-py/pagetext/internal/api/handlers"
	"github.com/markdave123-py/pagetext/internal/config"
	"github.com/markdave123-py/pagetext/internal/core"
	"github.com/markdave123-py/pagetext/internal/core/extraction_engine"
	objectclient "github.com/markdave123-py/pagetext/internal/core/object-client"
	"github.com/markdave123-py/pagetext/internal/core/ocr"
	"github.com/markdave123-py/pagetext/internal/core/pdfdoc"
	"github.com/markdave123-py/pagetext/internal/core/workerpool"
	"github.com/markdave123-py/pagetext/internal/services"
)

type App struct {
	Pool      *workerpool.Pool
	Extractor *extraction_engine.Extractor
	Service   *services.ExtractionService
	Server    *Server

	cfg    *config.Config
	logger zerolog.Logger
}

// NewApp builds every component and starts the worker pool. Call Close to stop it.
func NewApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	colorMode, err := extraction_engine.ParseColorMode(cfg.ColorMode)
	if err != nil {
		return nil, err
	}

	appCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pool := workerpool.New(cfg.WorkerPoolSize, logger)
	pool.Start()

	engine := ocr.NewTesseract(logger)
	logger.Info().Str("engine", engine.Name()).Bool("ocr_enabled", ocr.Enabled).Msg("OCR engine ready")

	defaults := extraction_engine.ExtractionConfig{
		Language:   cfg.TesseractLanguage,
		DPI:        cfg.TesseractDPI,
		MaxWorkers: cfg.WorkerPoolSize,
		DataPath:   cfg.TesseractDataPath,
		ColorMode:  colorMode,
	}
	extractor := extraction_engine.NewExtractor(pdfdoc.NewLoader(logger), engine, pool, defaults, cfg.TempDir, logger)

	var storage core.ObjectClient
	s3Client, err := objectclient.NewS3Client(appCtx, cfg, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("object storage disabled")
	} else {
		storage = s3Client
	}

	service := services.NewExtractionService(extractor, storage, cfg.TempDir, logger)
	server := NewServer(
		cfg,
		handlers.NewExtractionHandler(service, cfg.MaxUploadBytes(), logger),
		handlers.NewHealthHandler(),
		logger,
	)

	return &App{
		Pool:      pool,
		Extractor: extractor,
		Service:   service,
		Server:    server,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// WarmUp runs the startup extraction when enabled. Failures are logged only.
func (a *App) WarmUp(ctx context.Context) {
	if !a.cfg.WarmUpEnabled {
		a.logger.Info().Msg("warm-up disabled")
		return
	}
	if err := a.Extractor.WarmUp(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("warm-up failed")
	}
}

// Close stops the worker pool after in-flight pages finish.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Stop()
	}
}
