package export

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/jung-kurt/gofpdf"

	"github.com/basu-10/MioHub-sub000/internal/document"
)

// A4 landscape drawable area in millimeters, minus a small margin.
const (
	pdfPageW  = 297.0
	pdfPageH  = 210.0
	pdfMargin = 10.0
)

// EncodePDF renders every page of the document into one PDF, one sheet per
// whiteboard page. Pages are rasterized first and embedded as images, so
// the PDF output always matches the PNG output exactly.
func (r *Renderer) EncodePDF(doc *document.Document) ([]byte, error) {
	p := gofpdf.New("L", "mm", "A4", "")

	for i := range doc.Pages {
		img := r.RenderPage(&doc.Pages[i])

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", i, err)
		}

		name := fmt.Sprintf("page-%d", i)
		p.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, &buf)

		// Fit the raster inside the drawable area, preserving aspect.
		availW := pdfPageW - 2*pdfMargin
		availH := pdfPageH - 2*pdfMargin
		b := img.Bounds()
		w := availW
		h := w * float64(b.Dy()) / float64(b.Dx())
		if h > availH {
			h = availH
			w = h * float64(b.Dx()) / float64(b.Dy())
		}

		p.AddPage()
		x := pdfMargin + (availW-w)/2
		y := pdfMargin + (availH-h)/2
		p.ImageOptions(name, x, y, w, h, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	var out bytes.Buffer
	if err := p.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), nil
}
