package scene

import "image"

// Kind discriminates the object variants.
type Kind string

const (
	KindStroke Kind = "stroke"
	KindImage  Kind = "image"
	KindText   Kind = "text"
	KindShape  Kind = "shape"
)

// StrokeTool identifies the drawing tool a stroke was made with.
type StrokeTool string

const (
	ToolPen          StrokeTool = "pen"
	ToolMarker       StrokeTool = "marker"
	ToolHighlighter  StrokeTool = "highlighter"
	ToolEraser       StrokeTool = "eraser"
	ToolShapeOutline StrokeTool = "shapeOutline"
)

// ShapeForm identifies the geometric form of a shape object.
type ShapeForm string

const (
	FormRectangle     ShapeForm = "rectangle"
	FormEllipse       ShapeForm = "ellipse"
	FormDiamond       ShapeForm = "diamond"
	FormParallelogram ShapeForm = "parallelogram"
	FormArrow         ShapeForm = "arrow"
	FormLine          ShapeForm = "line"
)

// Common holds the attributes shared by every object variant.
// ID is unique within a document and never reused; Layer is the z-order,
// ties broken by ID.
type Common struct {
	ID    int
	Layer int
}

// Object is the closed union of drawable entities on a page. The engine
// dispatches on the concrete type; adding a variant means extending every
// type switch in bounds, hit-testing and rendering.
type Object interface {
	Kind() Kind
	Common() *Common
	// Clone returns a deep, detached copy sharing no mutable state with
	// the receiver. Runtime-only fields (decoded pixels, layout caches)
	// are dropped and rebuilt on demand.
	Clone() Object
	// Translate shifts the object by (dx, dy) in world space.
	Translate(dx, dy float64)
}

// Stroke is a freehand polyline. A committed stroke always has at least
// two points; shorter ones are discarded before they reach a page.
type Stroke struct {
	Meta    Common
	Points  []Point
	Tool    StrokeTool
	Color   string
	Width   float64
	Opacity float64
}

func (s *Stroke) Kind() Kind      { return KindStroke }
func (s *Stroke) Common() *Common { return &s.Meta }

func (s *Stroke) Clone() Object {
	c := *s
	c.Points = make([]Point, len(s.Points))
	copy(c.Points, s.Points)
	return &c
}

func (s *Stroke) Translate(dx, dy float64) {
	for i := range s.Points {
		s.Points[i].X += dx
		s.Points[i].Y += dy
	}
}

// Image is a raster picture placed on the page. Source is a data-URI or
// asset reference string; the decoded pixels are a runtime-only handle,
// never serialized and never shared between clones.
type Image struct {
	Meta     Common
	X        float64
	Y        float64
	W        float64
	H        float64
	Rotation float64
	FlipH    bool
	FlipV    bool
	Source   string

	decoded image.Image
}

func (im *Image) Kind() Kind      { return KindImage }
func (im *Image) Common() *Common { return &im.Meta }

func (im *Image) Clone() Object {
	c := *im
	c.decoded = nil
	return &c
}

func (im *Image) Translate(dx, dy float64) {
	im.X += dx
	im.Y += dy
}

// Decoded returns the cached decoded pixels, or nil if the source has not
// been decoded yet. A nil result renders as a blank placeholder.
func (im *Image) Decoded() image.Image { return im.decoded }

// SetDecoded caches decoded pixels for this object.
func (im *Image) SetDecoded(img image.Image) { im.decoded = img }

// Text is a block of wrapped text. The wrapped-line cache and the measured
// extent are recomputed lazily whenever content or font changes.
type Text struct {
	Meta     Common
	X        float64
	Y        float64
	Content  string
	FontSize float64
	Color    string
	Bold     bool
	Italic   bool

	layout *textLayout
}

func (t *Text) Kind() Kind      { return KindText }
func (t *Text) Common() *Common { return &t.Meta }

func (t *Text) Clone() Object {
	c := *t
	c.layout = nil
	return &c
}

func (t *Text) Translate(dx, dy float64) {
	t.X += dx
	t.Y += dy
}

// Shape is a parametric geometric figure. Start/End anchor connector-like
// forms (arrow, line); nil for closed forms.
type Shape struct {
	Meta     Common
	X        float64
	Y        float64
	W        float64
	H        float64
	Rotation float64
	FlipH    bool
	FlipV    bool
	Form     ShapeForm
	Start    *Point
	End      *Point
	Color    string
	Width    float64
}

func (sh *Shape) Kind() Kind      { return KindShape }
func (sh *Shape) Common() *Common { return &sh.Meta }

func (sh *Shape) Clone() Object {
	c := *sh
	if sh.Start != nil {
		p := *sh.Start
		c.Start = &p
	}
	if sh.End != nil {
		p := *sh.End
		c.End = &p
	}
	return &c
}

func (sh *Shape) Translate(dx, dy float64) {
	sh.X += dx
	sh.Y += dy
	if sh.Start != nil {
		sh.Start.X += dx
		sh.Start.Y += dy
	}
	if sh.End != nil {
		sh.End.X += dx
		sh.End.Y += dy
	}
}
