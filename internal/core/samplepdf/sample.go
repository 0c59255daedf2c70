// Package samplepdf writes small synthetic PDFs: pages with a real text layer and "scanned"
// pages that carry their text only as an embedded raster image.
package samplepdf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Page describes one page of a sample document.
//
// Text:    content of the page; empty produces a blank page.
// Scanned: when true the text is drawn into an image so the page has no text layer.
type Page struct {
	Text    string
	Scanned bool
}

// glyphScale enlarges the 7x13 bitmap font so OCR engines can read it.
const glyphScale = 6

// Write renders pages as an A4 PDF into w.
func Write(w io.Writer, pages ...Page) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, 0)

	for i, p := range pages {
		pdf.AddPage()
		if p.Text == "" {
			continue
		}

		if !p.Scanned {
			pdf.SetFont("Helvetica", "", 14)
			pdf.MultiCell(0, 8, p.Text, "", "L", false)
			continue
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, TextImage(p.Text)); err != nil {
			return fmt.Errorf("encode scanned page %d: %w", i, err)
		}
		name := fmt.Sprintf("scan-%d", i)
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.ImageOptions(name, 15, 15, 180, 0, false, opts, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write sample pdf: %w", err)
	}
	return nil
}

// TextImage draws text in black on a white background using a scaled bitmap font.
func TextImage(text string) *image.Gray {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil() + 20
	small := image.NewGray(image.Rect(0, 0, width, 30))
	draw.Draw(small, small.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  small,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(10, 20),
	}
	d.DrawString(text)

	b := small.Bounds()
	large := image.NewGray(image.Rect(0, 0, b.Dx()*glyphScale, b.Dy()*glyphScale))
	draw.NearestNeighbor.Scale(large, large.Bounds(), small, b, draw.Src, nil)
	return large
}
