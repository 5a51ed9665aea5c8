package export

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/basu-10/MioHub-sub000/internal/document"
	"github.com/basu-10/MioHub-sub000/internal/scene"
)

func TestRenderEmptyPage(t *testing.T) {
	r := NewRenderer(2, 8192)
	img := r.RenderPage(&document.Page{ID: "p"})

	b := img.Bounds()
	if b.Dx() != emptyPageSide || b.Dy() != emptyPageSide {
		t.Fatalf("empty page is %dx%d, want %dx%d", b.Dx(), b.Dy(), emptyPageSide, emptyPageSide)
	}
	if got := img.RGBAAt(10, 10); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("background %v, want white", got)
	}
}

func TestRenderStrokeMarksPixels(t *testing.T) {
	r := NewRenderer(1, 8192)
	page := &document.Page{ID: "p", Objects: []scene.Object{
		&scene.Stroke{
			Meta:    scene.Common{ID: 1},
			Points:  []scene.Point{{X: 0, Y: 50}, {X: 100, Y: 50}},
			Tool:    scene.ToolPen,
			Color:   "#ff0000",
			Width:   8,
			Opacity: 1,
		},
	}}

	img := r.RenderPage(page)

	// The stroke runs horizontally through the middle of the content
	// area; the padding offsets it by contentPadding on each side.
	cx := img.Bounds().Dx() / 2
	cy := img.Bounds().Dy() / 2
	got := img.RGBAAt(cx, cy)
	if got.R < 200 || got.G > 50 || got.B > 50 {
		t.Errorf("stroke center pixel %v, want red", got)
	}

	corner := img.RGBAAt(1, 1)
	if corner != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("corner pixel %v, want untouched white", corner)
	}
}

func TestRenderCapsImageSize(t *testing.T) {
	r := NewRenderer(10, 512)
	page := &document.Page{ID: "p", Objects: []scene.Object{
		&scene.Shape{
			Meta: scene.Common{ID: 1},
			X:    0, Y: 0, W: 5000, H: 5000,
			Form: scene.FormRectangle, Color: "#000", Width: 2,
		},
	}}

	img := r.RenderPage(page)
	b := img.Bounds()
	if b.Dx() > 520 || b.Dy() > 520 {
		t.Errorf("oversized render %dx%d with a 512 cap", b.Dx(), b.Dy())
	}
}

func TestEncodePNGSignature(t *testing.T) {
	r := NewRenderer(1, 1024)
	data, err := r.EncodePNG(&document.Page{ID: "p"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestEncodePDFOnePagePerBoardPage(t *testing.T) {
	doc := document.New()
	doc.Pages[0].Objects = []scene.Object{
		&scene.Shape{Meta: scene.Common{ID: 1}, X: 0, Y: 0, W: 100, H: 50, Form: scene.FormEllipse, Color: "#00f", Width: 3},
	}
	doc.AddPage()

	r := NewRenderer(1, 1024)
	data, err := r.EncodePDF(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
	// Two sheets: gofpdf writes a /Page object per AddPage.
	if n := bytes.Count(data, []byte("/Type /Page")); n < 2 {
		t.Errorf("found %d page markers, want at least 2", n)
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in      string
		opacity float64
		want    color.RGBA
	}{
		{"#ff0000", 1, color.RGBA{255, 0, 0, 255}},
		{"#f00", 1, color.RGBA{255, 0, 0, 255}},
		{"#00ff00", 0.5, color.RGBA{0, 127, 0, 128}},
		{"", 1, color.RGBA{0, 0, 0, 255}},
		{"not-a-color", 1, color.RGBA{0, 0, 0, 255}},
	}
	for _, c := range cases {
		got := parseColor(c.in, c.opacity).(color.RGBA)
		if got != c.want {
			t.Errorf("parseColor(%q, %v) = %v, want %v", c.in, c.opacity, got, c.want)
		}
	}
}
