package extraction_engine

import (
	"context"
	"errors"
	"image/color"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/pagetext/internal/core"
	"github.com/markdave123-py/pagetext/internal/core/workerpool"
	"github.com/markdave123-py/pagetext/internal/models"
)

func newTestExtractor(t *testing.T, ocr core.OCREngine, poolSize int) (*Extractor, string) {
	t.Helper()
	pool := workerpool.New(poolSize, zerolog.Nop())
	pool.Start()
	t.Cleanup(pool.Stop)

	root := t.TempDir()
	return NewExtractor(&fakeLoader{}, ocr, pool, DefaultExtractionConfig(), root, zerolog.Nop()), root
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary files left behind")
}

func statuses(doc *models.ExtractedDocument) []models.PageStatus {
	out := make([]models.PageStatus, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		out = append(out, p.Status)
	}
	return out
}

func TestExtractStrippedPagesOnly(t *testing.T) {
	ocr := &fakeOCR{}
	e, root := newTestExtractor(t, ocr, 4)
	doc := newFakeDoc(
		&fakePage{text: "  Page one\n"},
		&fakePage{text: "Page two"},
		&fakePage{text: "\tPage three "},
	)

	got, err := e.Extract(context.Background(), doc, ExtractionConfig{})
	require.NoError(t, err)

	assert.Equal(t, "Page onePage twoPage three", got.Text)
	assert.Equal(t, 3, got.PageCount)
	assert.Equal(t, []models.PageStatus{models.PageStripped, models.PageStripped, models.PageStripped}, statuses(got))
	assert.Zero(t, ocr.calls())
	assertDirEmpty(t, root)
}

func TestExtractScannedPagesUseOCR(t *testing.T) {
	ocr := &fakeOCR{text: map[int]string{0: "scan zero\n", 1: "scan one\n"}}
	e, root := newTestExtractor(t, ocr, 4)
	doc := newFakeDoc(&fakePage{}, &fakePage{text: " \n\t "})

	got, err := e.Extract(context.Background(), doc, ExtractionConfig{Language: "deu", DPI: 150})
	require.NoError(t, err)

	assert.Equal(t, "scan zero\nscan one\n", got.Text)
	assert.Equal(t, []models.PageStatus{models.PageOCRed, models.PageOCRed}, statuses(got))
	require.Len(t, ocr.requests, 2)
	for _, req := range ocr.requests {
		assert.Equal(t, "deu", req.Language)
		assert.Equal(t, 150, req.DPI)
	}
	assert.Empty(t, ocr.badImage)
	assertDirEmpty(t, root)
}

func TestExtractMixedDocument(t *testing.T) {
	ocr := &fakeOCR{text: map[int]string{1: "recognized"}}
	e, root := newTestExtractor(t, ocr, 4)
	doc := newFakeDoc(&fakePage{text: "first"}, &fakePage{}, &fakePage{text: "third"})

	got, err := e.Extract(context.Background(), doc, ExtractionConfig{})
	require.NoError(t, err)

	assert.Equal(t, "firstrecognizedthird", got.Text)
	assert.Equal(t, []models.PageStatus{models.PageStripped, models.PageOCRed, models.PageStripped}, statuses(got))
	assert.Equal(t, 1, ocr.calls())
	assertDirEmpty(t, root)
}

func TestExtractOCRFailureLeavesEmptyPage(t *testing.T) {
	ocr := &fakeOCR{
		text: map[int]string{0: "A", 2: "C"},
		err:  map[int]error{1: errors.New("tesseract exploded")},
	}
	e, root := newTestExtractor(t, ocr, 4)
	doc := newFakeDoc(&fakePage{}, &fakePage{}, &fakePage{})

	got, err := e.Extract(context.Background(), doc, ExtractionConfig{})
	require.NoError(t, err)

	assert.Equal(t, "AC", got.Text)
	assert.Equal(t, models.PageFailed, got.Pages[1].Status)
	assert.True(t, core.IsKind(got.Pages[1].Err, core.KindOCR))
	assertDirEmpty(t, root)
}

func TestExtractPreservesOrderWhenPagesFinishOutOfOrder(t *testing.T) {
	ocr := &fakeOCR{
		text:  map[int]string{0: "0", 1: "1", 2: "2", 3: "3"},
		delay: map[int]time.Duration{0: 40 * time.Millisecond, 1: 30 * time.Millisecond, 2: 20 * time.Millisecond},
	}
	e, _ := newTestExtractor(t, ocr, 4)
	doc := newFakeDoc(&fakePage{}, &fakePage{}, &fakePage{}, &fakePage{})

	got, err := e.Extract(context.Background(), doc, ExtractionConfig{MaxWorkers: 4})
	require.NoError(t, err)

	assert.Equal(t, "0123", got.Text)
	for i, p := range got.Pages {
		assert.Equal(t, i, p.Index)
	}
}

func TestExtractRenderFailure(t *testing.T) {
	ocr := &fakeOCR{text: map[int]string{1: "ok"}}
	e, root := newTestExtractor(t, ocr, 2)
	doc := newFakeDoc(&fakePage{renderErr: errors.New("bad stream")}, &fakePage{})

	got, err := e.Extract(context.Background(), doc, ExtractionConfig{})
	require.NoError(t, err)

	assert.Equal(t, "ok", got.Text)
	assert.Equal(t, models.PageFailed, got.Pages[0].Status)
	assert.True(t, core.IsKind(got.Pages[0].Err, core.KindRasterize))
	assert.Equal(t, 1, ocr.calls())
	assertDirEmpty(t, root)
}

func TestExtractStripFailureFallsBackToOCR(t *testing.T) {
	ocr := &fakeOCR{text: map[int]string{0: "from ocr"}}
	e, _ := newTestExtractor(t, ocr, 2)
	doc := newFakeDoc(&fakePage{text: "ignored", textErr: errors.New("broken font")})

	got, err := e.Extract(context.Background(), doc, ExtractionConfig{})
	require.NoError(t, err)

	assert.Equal(t, "from ocr", got.Text)
	assert.Equal(t, models.PageOCRed, got.Pages[0].Status)
}

func TestExtractEnginePanicIsContained(t *testing.T) {
	ocr := &fakeOCR{text: map[int]string{1: "survivor"}, panic: map[int]bool{0: true}}
	e, root := newTestExtractor(t, ocr, 2)
	doc := newFakeDoc(&fakePage{}, &fakePage{})

	got, err := e.Extract(context.Background(), doc, ExtractionConfig{})
	require.NoError(t, err)

	assert.Equal(t, "survivor", got.Text)
	assert.Equal(t, models.PageFailed, got.Pages[0].Status)
	assertDirEmpty(t, root)
}

func TestExtractSplitFailureAbortsDocument(t *testing.T) {
	ocr := &fakeOCR{}
	e, _ := newTestExtractor(t, ocr, 2)
	doc := newFakeDoc(&fakePage{text: "a"}, &fakePage{text: "b"})
	doc.pageErr = map[int]error{1: errors.New("missing page object")}

	got, err := e.Extract(context.Background(), doc, ExtractionConfig{})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, core.IsKind(err, core.KindSplit))
	assert.True(t, core.IsDocumentError(err))
}

func TestExtractEmptyDocument(t *testing.T) {
	e, root := newTestExtractor(t, &fakeOCR{}, 2)

	got, err := e.Extract(context.Background(), newFakeDoc(), ExtractionConfig{})
	require.NoError(t, err)

	assert.Equal(t, "", got.Text)
	assert.Equal(t, 0, got.PageCount)
	assert.Empty(t, got.Pages)
	assertDirEmpty(t, root)
}

func TestExtractGrayscaleByDefault(t *testing.T) {
	ocr := &fakeOCR{text: map[int]string{0: "x", 1: "y"}}
	e, _ := newTestExtractor(t, ocr, 2)
	doc := newFakeDoc(&fakePage{rgb: true}, &fakePage{rgb: true})

	_, err := e.Extract(context.Background(), doc, ExtractionConfig{})
	require.NoError(t, err)
	assert.Equal(t, color.GrayModel, ocr.models[0])

	_, err = e.Extract(context.Background(), doc, ExtractionConfig{ColorMode: ColorModeRGB})
	require.NoError(t, err)
	assert.NotEqual(t, color.GrayModel, ocr.models[0])
}

func TestExtractRespectsMaxWorkers(t *testing.T) {
	text := map[int]string{}
	delay := map[int]time.Duration{}
	pages := make([]*fakePage, 10)
	for i := range pages {
		pages[i] = &fakePage{}
		text[i] = "p"
		delay[i] = 10 * time.Millisecond
	}
	ocr := &fakeOCR{text: text, delay: delay}
	e, _ := newTestExtractor(t, ocr, 8)

	got, err := e.Extract(context.Background(), newFakeDoc(pages...), ExtractionConfig{MaxWorkers: 2})
	require.NoError(t, err)

	assert.Equal(t, "pppppppppp", got.Text)
	assert.LessOrEqual(t, ocr.peak.Load(), int32(2))
}

func TestExtractPoolBoundsConcurrency(t *testing.T) {
	text := map[int]string{}
	delay := map[int]time.Duration{}
	pages := make([]*fakePage, 6)
	for i := range pages {
		pages[i] = &fakePage{}
		text[i] = "p"
		delay[i] = 10 * time.Millisecond
	}
	ocr := &fakeOCR{text: text, delay: delay}
	e, _ := newTestExtractor(t, ocr, 1)

	_, err := e.Extract(context.Background(), newFakeDoc(pages...), ExtractionConfig{MaxWorkers: 8})
	require.NoError(t, err)
	assert.Equal(t, int32(1), ocr.peak.Load())
}

func TestExtractCancelledContext(t *testing.T) {
	ocr := &fakeOCR{}
	e, root := newTestExtractor(t, ocr, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := e.Extract(ctx, newFakeDoc(&fakePage{}, &fakePage{}), ExtractionConfig{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
	assert.Zero(t, ocr.calls())
	assertDirEmpty(t, root)
}

func TestExtractWithStoppedPool(t *testing.T) {
	pool := workerpool.New(2, zerolog.Nop())
	pool.Start()
	pool.Stop()
	e := NewExtractor(&fakeLoader{}, &fakeOCR{}, pool, DefaultExtractionConfig(), t.TempDir(), zerolog.Nop())

	got, err := e.Extract(context.Background(), newFakeDoc(&fakePage{text: "a"}), ExtractionConfig{})
	require.NoError(t, err)

	assert.Equal(t, "", got.Text)
	assert.Equal(t, models.PageFailed, got.Pages[0].Status)
	assert.ErrorIs(t, got.Pages[0].Err, workerpool.ErrPoolClosed)
}

func TestExtractFile(t *testing.T) {
	doc := newFakeDoc(&fakePage{text: "file text"})
	pool := workerpool.New(1, zerolog.Nop())
	pool.Start()
	t.Cleanup(pool.Stop)

	var loaded string
	loader := &fakeLoader{doc: doc, seen: func(p string) { loaded = p }}
	e := NewExtractor(loader, &fakeOCR{}, pool, DefaultExtractionConfig(), t.TempDir(), zerolog.Nop())

	got, err := e.ExtractFile(context.Background(), "/tmp/in.pdf", ExtractionConfig{})
	require.NoError(t, err)

	assert.Equal(t, "file text", got.Text)
	assert.Equal(t, "/tmp/in.pdf", loaded)
	assert.True(t, doc.closed.Load())
}

func TestExtractFileWrapsLoadFailure(t *testing.T) {
	pool := workerpool.New(1, zerolog.Nop())
	e := NewExtractor(&fakeLoader{err: errors.New("not a pdf")}, &fakeOCR{}, pool, DefaultExtractionConfig(), t.TempDir(), zerolog.Nop())

	_, err := e.ExtractFile(context.Background(), "x.pdf", ExtractionConfig{})
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindLoad))
	assert.Contains(t, err.Error(), "not a pdf")
}
