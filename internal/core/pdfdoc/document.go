package pdfdoc

import (
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"github.com/markdave123-py/pagetext/internal/core"
)

// Document is a loaded PDF. Pages may be read and rendered from multiple goroutines.
type Document struct {
	path      string
	pageCount int
	logger    zerolog.Logger

	// go-fitz serializes access to its context internally.
	renderer *fitz.Document

	// ledongthuc/pdf readers are not safe for concurrent use.
	textMu   sync.Mutex
	text     *pdf.Reader
	textFile io.Closer

	closeOnce sync.Once
	closeErr  error
}

var _ core.Document = (*Document)(nil)

func (d *Document) PageCount() int {
	return d.pageCount
}

func (d *Document) Page(i int) (core.Page, error) {
	if i < 0 || i >= d.pageCount {
		return nil, fmt.Errorf("page %d out of range [0, %d)", i, d.pageCount)
	}
	return &page{doc: d, index: i}, nil
}

// Close releases the renderer and the text layer. Safe to call more than once.
func (d *Document) Close() error {
	d.closeOnce.Do(func() {
		if err := d.renderer.Close(); err != nil {
			d.closeErr = err
		}
		d.textMu.Lock()
		defer d.textMu.Unlock()
		if d.textFile != nil {
			if err := d.textFile.Close(); err != nil && d.closeErr == nil {
				d.closeErr = err
			}
			d.text, d.textFile = nil, nil
		}
	})
	return d.closeErr
}

func (d *Document) pageText(i int) (text string, err error) {
	d.textMu.Lock()
	defer d.textMu.Unlock()
	if d.text == nil {
		return "", nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: text layer panic: %v", i, r)
		}
	}()

	p := d.text.Page(i + 1)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

func (d *Document) render(i, dpi int) (image.Image, error) {
	img, err := d.renderer.ImageDPI(i, float64(dpi))
	if err != nil {
		return nil, err
	}
	return img, nil
}

type page struct {
	doc   *Document
	index int
}

func (p *page) Index() int {
	return p.index
}

func (p *page) Text() (string, error) {
	return p.doc.pageText(p.index)
}

func (p *page) Render(dpi int) (image.Image, error) {
	return p.doc.render(p.index, dpi)
}
