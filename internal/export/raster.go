// Package export renders whiteboard pages to PNG and PDF.
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"sort"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/basu-10/MioHub-sub000/internal/document"
	"github.com/basu-10/MioHub-sub000/internal/engine"
	"github.com/basu-10/MioHub-sub000/internal/scene"
)

const (
	// contentPadding is the world-space margin around the rendered content.
	contentPadding = 32.0
	// emptyPageSide is the pixel size of the image for a page with nothing on it.
	emptyPageSide = 256
)

// Renderer rasterizes pages at a fixed world-to-pixel scale, capped so a
// sprawling page cannot produce an unbounded allocation.
type Renderer struct {
	Scale   float64
	MaxSide int
}

func NewRenderer(scale float64, maxSide int) *Renderer {
	if scale <= 0 {
		scale = 1
	}
	if maxSide <= 0 {
		maxSide = 8192
	}
	return &Renderer{Scale: scale, MaxSide: maxSide}
}

// RenderPage rasterizes one page onto a white background.
func (r *Renderer) RenderPage(page *document.Page) *image.RGBA {
	if len(page.Objects) == 0 {
		img := image.NewRGBA(image.Rect(0, 0, emptyPageSide, emptyPageSide))
		fill(img, color.White)
		return img
	}

	bounds := contentBounds(page.Objects)
	scale := r.Scale
	if side := math.Max(bounds.W, bounds.H) * scale; side > float64(r.MaxSide) {
		scale = float64(r.MaxSide) / math.Max(bounds.W, bounds.H)
	}

	w := int(math.Ceil(bounds.W * scale))
	h := int(math.Ceil(bounds.H * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(img, color.White)

	fr := frame{originX: bounds.X, originY: bounds.Y, scale: scale}
	for _, o := range paintOrder(page.Objects) {
		paintObject(img, fr, o)
	}
	return img
}

// EncodePNG renders a page and encodes it.
func (r *Renderer) EncodePNG(page *document.Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.RenderPage(page)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// contentBounds is the padded union of every object's bounding box.
func contentBounds(objects []scene.Object) scene.Rect {
	var u scene.Rect
	for i, o := range objects {
		b := engine.Bounds(o)
		if i == 0 {
			u = b
		} else {
			u = u.Union(b)
		}
	}
	return u.Expand(contentPadding)
}

// paintOrder sorts back to front: ascending layer, ties by id.
func paintOrder(objects []scene.Object) []scene.Object {
	out := make([]scene.Object, len(objects))
	copy(out, objects)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Common(), out[j].Common()
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}
		return a.ID < b.ID
	})
	return out
}

// frame maps world coordinates to pixel coordinates.
type frame struct {
	originX, originY float64
	scale            float64
}

func (f frame) px(x, y float64) (float32, float32) {
	return float32((x - f.originX) * f.scale), float32((y - f.originY) * f.scale)
}

func paintObject(dst *image.RGBA, fr frame, o scene.Object) {
	switch v := o.(type) {
	case *scene.Stroke:
		paintStroke(dst, fr, v)
	case *scene.Image:
		paintImage(dst, fr, v)
	case *scene.Text:
		paintText(dst, fr, v)
	case *scene.Shape:
		paintShape(dst, fr, v)
	}
}

func paintStroke(dst *image.RGBA, fr frame, s *scene.Stroke) {
	if len(s.Points) < 2 {
		return
	}
	opacity := s.Opacity
	if s.Tool == scene.ToolHighlighter {
		opacity *= 0.4
	}
	strokePolyline(dst, fr, s.Points, s.Width, parseColor(s.Color, opacity))
}

func paintShape(dst *image.RGBA, fr frame, sh *scene.Shape) {
	col := parseColor(sh.Color, 1)
	outline := shapeOutline(sh)
	m := engine.AboutCenter(sh.X+sh.W/2, sh.Y+sh.H/2, sh.Rotation, sh.FlipH, sh.FlipV)
	for _, path := range outline {
		pts := make([]scene.Point, len(path))
		for i, p := range path {
			x, y := m.TransformPoint(p.X, p.Y)
			pts[i] = scene.Point{X: x, Y: y}
		}
		strokePolyline(dst, fr, pts, sh.Width, col)
	}
}

// shapeOutline returns the unrotated outline paths for a shape form.
func shapeOutline(sh *scene.Shape) [][]scene.Point {
	x, y, w, h := sh.X, sh.Y, sh.W, sh.H
	switch sh.Form {
	case scene.FormRectangle:
		return [][]scene.Point{{
			{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}, {X: x, Y: y},
		}}
	case scene.FormEllipse:
		const segments = 64
		cx, cy := x+w/2, y+h/2
		pts := make([]scene.Point, segments+1)
		for i := 0; i <= segments; i++ {
			a := 2 * math.Pi * float64(i) / segments
			pts[i] = scene.Point{X: cx + w/2*math.Cos(a), Y: cy + h/2*math.Sin(a)}
		}
		return [][]scene.Point{pts}
	case scene.FormDiamond:
		return [][]scene.Point{{
			{X: x + w/2, Y: y}, {X: x + w, Y: y + h/2}, {X: x + w/2, Y: y + h}, {X: x, Y: y + h/2}, {X: x + w/2, Y: y},
		}}
	case scene.FormParallelogram:
		skew := w / 4
		return [][]scene.Point{{
			{X: x + skew, Y: y}, {X: x + w, Y: y}, {X: x + w - skew, Y: y + h}, {X: x, Y: y + h}, {X: x + skew, Y: y},
		}}
	case scene.FormLine, scene.FormArrow:
		start := scene.Point{X: x, Y: y}
		end := scene.Point{X: x + w, Y: y + h}
		if sh.Start != nil {
			start = *sh.Start
		}
		if sh.End != nil {
			end = *sh.End
		}
		paths := [][]scene.Point{{start, end}}
		if sh.Form == scene.FormArrow {
			paths = append(paths, arrowHead(start, end)...)
		}
		return paths
	default:
		return nil
	}
}

// arrowHead returns the two barbs at the end of an arrow.
func arrowHead(start, end scene.Point) [][]scene.Point {
	angle := math.Atan2(end.Y-start.Y, end.X-start.X)
	length := 12.0
	spread := math.Pi / 6
	left := scene.Point{
		X: end.X - length*math.Cos(angle-spread),
		Y: end.Y - length*math.Sin(angle-spread),
	}
	right := scene.Point{
		X: end.X - length*math.Cos(angle+spread),
		Y: end.Y - length*math.Sin(angle+spread),
	}
	return [][]scene.Point{{left, end}, {right, end}}
}

// strokePolyline fills one quad per segment plus a round cap at each
// vertex, which is close enough to a proper stroker at whiteboard widths.
func strokePolyline(dst *image.RGBA, fr frame, pts []scene.Point, width float64, col color.Color) {
	if len(pts) < 2 || width <= 0 {
		return
	}
	half := width / 2

	ras := vector.NewRasterizer(dst.Bounds().Dx(), dst.Bounds().Dy())
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dx, dy := b.X-a.X, b.Y-a.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		// Perpendicular offset in world units.
		nx, ny := -dy/length*half, dx/length*half

		x0, y0 := fr.px(a.X+nx, a.Y+ny)
		x1, y1 := fr.px(b.X+nx, b.Y+ny)
		x2, y2 := fr.px(b.X-nx, b.Y-ny)
		x3, y3 := fr.px(a.X-nx, a.Y-ny)
		ras.MoveTo(x0, y0)
		ras.LineTo(x1, y1)
		ras.LineTo(x2, y2)
		ras.LineTo(x3, y3)
		ras.ClosePath()
	}
	for _, p := range pts {
		addCircle(ras, fr, p, half)
	}
	ras.Draw(dst, dst.Bounds(), image.NewUniform(col), image.Point{})
}

func addCircle(ras *vector.Rasterizer, fr frame, c scene.Point, radius float64) {
	const segments = 16
	x, y := fr.px(c.X+radius, c.Y)
	ras.MoveTo(x, y)
	for i := 1; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		px, py := fr.px(c.X+radius*math.Cos(a), c.Y+radius*math.Sin(a))
		ras.LineTo(px, py)
	}
	ras.ClosePath()
}

// paintText renders the wrapped lines at the face's natural metrics, then
// scales the result into the object's world extent.
func paintText(dst *image.RGBA, fr frame, t *scene.Text) {
	lines, w, h := t.Layout()
	if w <= 0 || h <= 0 {
		return
	}

	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()
	ascent := face.Metrics().Ascent.Ceil()

	naturalW := 0
	for _, ln := range lines {
		if adv := font.MeasureString(face, ln).Ceil(); adv > naturalW {
			naturalW = adv
		}
	}
	if naturalW == 0 {
		return
	}
	naturalH := lineHeight * len(lines)

	tmp := image.NewRGBA(image.Rect(0, 0, naturalW, naturalH))
	d := font.Drawer{
		Dst:  tmp,
		Src:  image.NewUniform(parseColor(t.Color, 1)),
		Face: face,
	}
	for i, ln := range lines {
		d.Dot = fixed.P(0, ascent+i*lineHeight)
		d.DrawString(ln)
	}

	x0, y0 := fr.px(t.X+scene.TextPadding, t.Y+scene.TextPadding)
	x1, y1 := fr.px(t.X+scene.TextPadding+w, t.Y+scene.TextPadding+h)
	target := image.Rect(int(x0), int(y0), int(math.Ceil(float64(x1))), int(math.Ceil(float64(y1))))
	xdraw.ApproxBiLinear.Scale(dst, target, tmp, tmp.Bounds(), xdraw.Over, nil)
}

// paintImage decodes the embedded source and maps it through the object's
// placement and rotation in one affine transform.
func paintImage(dst *image.RGBA, fr frame, im *scene.Image) {
	src := im.Decoded()
	if src == nil {
		decoded, err := decodeDataURI(im.Source)
		if err != nil {
			return
		}
		src = decoded
		im.SetDecoded(decoded)
	}

	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 || im.W <= 0 || im.H <= 0 {
		return
	}

	// source pixels -> object rect -> rotation about center -> pixels
	place := engine.Translate(im.X, im.Y).
		Multiply(engine.Scale(im.W/float64(sb.Dx()), im.H/float64(sb.Dy())))
	world := engine.AboutCenter(im.X+im.W/2, im.Y+im.H/2, im.Rotation, im.FlipH, im.FlipV).Multiply(place)
	device := engine.Scale(fr.scale, fr.scale).
		Multiply(engine.Translate(-fr.originX, -fr.originY)).
		Multiply(world)

	m := device.ToSlice()
	aff := f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
	xdraw.ApproxBiLinear.Transform(dst, aff, src, sb, xdraw.Over, nil)
}

// decodeDataURI accepts "data:image/<fmt>;base64,<payload>" or bare base64.
func decodeDataURI(source string) (image.Image, error) {
	payload := source
	if strings.HasPrefix(source, "data:") {
		i := strings.Index(source, ",")
		if i < 0 {
			return nil, fmt.Errorf("malformed data uri")
		}
		payload = source[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func fill(img *image.RGBA, c color.Color) {
	r, g, b, a := c.RGBA()
	col := color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = col.R
		img.Pix[i+1] = col.G
		img.Pix[i+2] = col.B
		img.Pix[i+3] = col.A
	}
}

// parseColor accepts #rgb and #rrggbb hex colors; anything else is black.
func parseColor(s string, opacity float64) color.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b uint8
	switch len(s) {
	case 3:
		r = hexNibble(s[0]) * 17
		g = hexNibble(s[1]) * 17
		b = hexNibble(s[2]) * 17
	case 6:
		r = hexNibble(s[0])<<4 | hexNibble(s[1])
		g = hexNibble(s[2])<<4 | hexNibble(s[3])
		b = hexNibble(s[4])<<4 | hexNibble(s[5])
	default:
		r, g, b = 0, 0, 0
	}
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	a := uint8(math.Round(opacity * 255))
	// Premultiplied.
	return color.RGBA{
		R: uint8(float64(r) * opacity),
		G: uint8(float64(g) * opacity),
		B: uint8(float64(b) * opacity),
		A: a,
	}
}

func hexNibble(b byte) uint8 {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
