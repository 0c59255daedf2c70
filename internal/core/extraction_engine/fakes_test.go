package extraction_engine

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/markdave123-py/pagetext/internal/core"
)

type fakePage struct {
	index     int
	text      string
	textErr   error
	renderErr error
	rgb       bool
}

func (p *fakePage) Index() int { return p.index }

func (p *fakePage) Text() (string, error) { return p.text, p.textErr }

func (p *fakePage) Render(dpi int) (image.Image, error) {
	if p.renderErr != nil {
		return nil, p.renderErr
	}
	r := image.Rect(0, 0, 8, 8)
	if p.rgb {
		img := image.NewRGBA(r)
		img.Set(1, 1, color.RGBA{R: 200, A: 255})
		return img, nil
	}
	return image.NewGray(r), nil
}

type fakeDoc struct {
	pages   []*fakePage
	pageErr map[int]error
	closed  atomic.Bool
}

func newFakeDoc(pages ...*fakePage) *fakeDoc {
	for i, p := range pages {
		p.index = i
	}
	return &fakeDoc{pages: pages}
}

func (d *fakeDoc) PageCount() int { return len(d.pages) }

func (d *fakeDoc) Page(i int) (core.Page, error) {
	if err := d.pageErr[i]; err != nil {
		return nil, err
	}
	return d.pages[i], nil
}

func (d *fakeDoc) Close() error {
	d.closed.Store(true)
	return nil
}

type fakeLoader struct {
	doc  core.Document
	err  error
	seen func(path string)
}

func (l *fakeLoader) Load(_ context.Context, path string) (core.Document, error) {
	if l.seen != nil {
		l.seen(path)
	}
	if l.err != nil {
		return nil, l.err
	}
	return l.doc, nil
}

// fakeOCR returns text[page], fails for err[page] and sleeps delay[page] before answering.
// It checks that the image it receives exists and decodes as PNG.
type fakeOCR struct {
	text  map[int]string
	err   map[int]error
	delay map[int]time.Duration
	panic map[int]bool

	mu       sync.Mutex
	requests []core.OCRRequest
	models   map[int]color.Model
	badImage []int

	active, peak atomic.Int32
}

func (o *fakeOCR) Name() string { return "fake" }

func (o *fakeOCR) Recognize(ctx context.Context, req core.OCRRequest) (string, error) {
	n := o.active.Add(1)
	defer o.active.Add(-1)
	for {
		old := o.peak.Load()
		if n <= old || o.peak.CompareAndSwap(old, n) {
			break
		}
	}

	model, err := decodeModel(req.ImagePath)

	o.mu.Lock()
	o.requests = append(o.requests, req)
	if err != nil {
		o.badImage = append(o.badImage, req.Page)
	} else {
		if o.models == nil {
			o.models = map[int]color.Model{}
		}
		o.models[req.Page] = model
	}
	o.mu.Unlock()

	if d := o.delay[req.Page]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if o.panic[req.Page] {
		panic("engine crashed")
	}
	if err := o.err[req.Page]; err != nil {
		return "", err
	}
	return o.text[req.Page], nil
}

func (o *fakeOCR) calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.requests)
}

func decodeModel(path string) (color.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, errors.New("empty image")
	}
	return img.ColorModel(), nil
}
