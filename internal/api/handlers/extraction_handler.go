package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/markdave123-py/pagetext/internal/core"
	"github.com/markdave123-py/pagetext/internal/core/extraction_engine"
	"github.com/markdave123-py/pagetext/internal/models"
	"github.com/markdave123-py/pagetext/internal/services"
)

// multipart parts above this size are spilled to disk by net/http.
const formMemory = 8 << 20

// Extractor is the service surface the handlers call.
type Extractor interface {
	ExtractUpload(ctx context.Context, fileName string, r io.Reader, opts services.ExtractOptions) (*models.ExtractionResult, error)
	ExtractObject(ctx context.Context, bucket, key string, opts services.ExtractOptions) (*models.ExtractionResult, error)
}

type ExtractionHandler struct {
	service   Extractor
	maxUpload int64
	logger    zerolog.Logger
}

func NewExtractionHandler(service Extractor, maxUpload int64, logger zerolog.Logger) *ExtractionHandler {
	return &ExtractionHandler{
		service:   service,
		maxUpload: maxUpload,
		logger:    logger.With().Str("component", "extraction_handler").Logger(),
	}
}

// ExtractText handles a multipart upload in field "file".
func (h *ExtractionHandler) ExtractText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file_too_large", fmt.Sprintf("upload exceeds %d bytes", h.maxUpload))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "expected a multipart/form-data body")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing form field \"file\"")
		return
	}
	defer file.Close()

	opts, err := parseOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	res, err := h.service.ExtractUpload(r.Context(), header.Filename, file, opts)
	if err != nil {
		h.writeExtractError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ExtractFromS3 extracts the object named by the {bucket} path parameter and the key query parameter.
func (h *ExtractionHandler) ExtractFromS3(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	key := r.URL.Query().Get("key")
	if bucket == "" || key == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "bucket and key are required")
		return
	}

	opts, err := parseOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	res, err := h.service.ExtractObject(r.Context(), bucket, key, opts)
	if err != nil {
		h.writeExtractError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ExtractionHandler) writeExtractError(w http.ResponseWriter, r *http.Request, err error) {
	log := h.logger.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()

	switch {
	case errors.Is(err, services.ErrNotPDF):
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", err.Error())
	case core.IsDocumentError(err):
		log.Warn().Err(err).Msg("invalid document")
		writeError(w, http.StatusUnprocessableEntity, "invalid_document", err.Error())
	case core.IsKind(err, core.KindFetch):
		log.Error().Err(err).Msg("fetch failed")
		writeError(w, http.StatusBadGateway, "fetch_failed", err.Error())
	case errors.Is(err, services.ErrStorageUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		log.Error().Err(err).Msg("extraction timed out")
		writeError(w, http.StatusGatewayTimeout, "timeout", "extraction timed out")
	default:
		log.Error().Err(err).Msg("extraction failed")
		writeError(w, http.StatusInternalServerError, "extraction_failed", "failed to extract text")
	}
}

// parseOptions reads lang, dpi and pages from the query string or form.
func parseOptions(r *http.Request) (services.ExtractOptions, error) {
	var opts services.ExtractOptions
	opts.Config = extraction_engine.ExtractionConfig{Language: r.FormValue("lang")}

	if v := r.FormValue("dpi"); v != "" {
		dpi, err := strconv.Atoi(v)
		if err != nil || dpi <= 0 || dpi > 1200 {
			return opts, fmt.Errorf("dpi must be an integer between 1 and 1200, got %q", v)
		}
		opts.Config.DPI = dpi
	}

	if v := r.FormValue("pages"); v != "" {
		pages, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("pages must be a boolean, got %q", v)
		}
		opts.IncludePages = pages
	}
	return opts, nil
}
