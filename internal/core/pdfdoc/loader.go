// Package pdfdoc loads PDF files into core.Document values.
//
// Three libraries share the work: pdfcpu parses and counts pages, ledongthuc/pdf reads the text
// layer and MuPDF (through go-fitz) renders pages to images.
package pdfdoc

import (
	"context"
	"fmt"
	"io"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog"

	"github.com/markdave123-py/pagetext/internal/core"
)

func init() {
	// pdfcpu would otherwise create a config directory under the user's home.
	api.DisableConfigDir()
}

// Loader opens PDF files from local disk.
type Loader struct {
	logger zerolog.Logger
}

func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{logger: logger.With().Str("component", "pdfdoc").Logger()}
}

// Load parses the file at path. Failures to read the file as a PDF are load errors; a page count
// that the renderer cannot reproduce is a split error.
func (l *Loader) Load(ctx context.Context, path string) (core.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := l.logger.With().Str("path", path).Logger()

	pctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, core.LoadError("read pdf", err)
	}
	if err := api.ValidateContext(pctx); err != nil {
		log.Warn().Err(err).Msg("pdf failed validation, continuing")
	}
	count := pctx.PageCount

	renderer, err := fitz.New(path)
	if err != nil {
		return nil, core.LoadError("open pdf renderer", err)
	}
	if n := renderer.NumPage(); n != count {
		_ = renderer.Close()
		return nil, core.SplitError(fmt.Sprintf("page count mismatch: parser reports %d, renderer %d", count, n), nil)
	}

	doc := &Document{
		path:      path,
		pageCount: count,
		renderer:  renderer,
		logger:    log,
	}

	file, reader, err := openTextLayer(path)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("text layer unreadable, every page will be OCRed")
	case reader.NumPage() != count:
		log.Warn().Int("text_pages", reader.NumPage()).Int("pages", count).Msg("text layer page count differs, every page will be OCRed")
		_ = file.Close()
	default:
		doc.textFile, doc.text = file, reader
	}

	log.Debug().Int("pages", count).Bool("text_layer", doc.text != nil).Msg("loaded pdf")
	return doc, nil
}

func openTextLayer(path string) (f io.Closer, r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return file, reader, nil
}
