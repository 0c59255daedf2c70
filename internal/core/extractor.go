package core

import (
	"context"
	"image"
)

// Page is an opaque handle to one page of a loaded document.
type Page interface {
	// Index is the zero-based position of the page inside its document.
	Index() int
	// Text returns the text embedded in the page's content stream, untrimmed.
	Text() (string, error)
	// Render rasterizes the page at the given resolution.
	Render(dpi int) (image.Image, error)
}

// Document is an ordered, read-only sequence of pages. Page indices are dense: 0..PageCount()-1.
type Document interface {
	PageCount() int
	Page(i int) (Page, error)
	Close() error
}

// DocumentLoader turns a file on disk into a Document.
type DocumentLoader interface {
	Load(ctx context.Context, path string) (Document, error)
}

// OCRRequest carries everything an engine needs to recognize one rasterized page.
//
// Page:      zero-based page index, used for logging and correlation only.
// ImagePath: path of the rasterized page image on local disk.
// Language:  tesseract language code(s), e.g. "eng" or "eng+deu".
// DataPath:  tessdata directory; empty means the engine default.
// DPI:       resolution the image was rendered at.
type OCRRequest struct {
	Page      int
	ImagePath string
	Language  string
	DataPath  string
	DPI       int
}

// OCREngine recognizes text in an image. Implementations must not share mutable state across calls.
type OCREngine interface {
	Name() string
	Recognize(ctx context.Context, req OCRRequest) (string, error)
}
