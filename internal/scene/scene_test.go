package scene

import (
	"testing"
)

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 20, Y: 5, W: 10, H: 10}

	u := a.Union(b)
	if u.X != 0 || u.Y != 0 || u.W != 30 || u.H != 15 {
		t.Errorf("union = %+v", u)
	}

	// Empty rects are absorbed rather than dragging in the origin.
	if got := (Rect{}).Union(b); got != b {
		t.Errorf("empty union = %+v", got)
	}
	if got := a.Union(Rect{}); got != a {
		t.Errorf("union with empty = %+v", got)
	}
}

func TestRectExpandContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 10, H: 10}.Expand(5)
	if r.X != 5 || r.Y != 5 || r.W != 20 || r.H != 20 {
		t.Errorf("expand = %+v", r)
	}
	if !r.Contains(5, 5) || r.Contains(4.9, 5) {
		t.Error("contains edge checks failed")
	}
}

func TestObjectRoundTrip(t *testing.T) {
	objects := []Object{
		&Stroke{
			Meta:   Common{ID: 1, Layer: 0},
			Points: []Point{{0, 0}, {10, 5}, {20, 0}},
			Tool:   ToolPen, Color: "#112233", Width: 4, Opacity: 1,
		},
		&Image{
			Meta: Common{ID: 2, Layer: 1},
			X:    5, Y: 5, W: 100, H: 50, Rotation: 0.5, FlipH: true,
			Source: "data:image/png;base64,AAAA",
		},
		&Text{
			Meta: Common{ID: 3, Layer: 2},
			X:    1, Y: 2, Content: "hello world", FontSize: 18,
			Color: "#000000", Bold: true,
		},
		&Shape{
			Meta: Common{ID: 4, Layer: 0},
			X:    0, Y: 0, W: 40, H: 30, Form: FormArrow,
			Start: &Point{0, 0}, End: &Point{40, 30},
			Color: "#ff0000", Width: 2,
		},
	}

	data, err := MarshalObjects(objects)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := UnmarshalObjects(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != len(objects) {
		t.Fatalf("got %d objects, want %d", len(decoded), len(objects))
	}

	for i, o := range decoded {
		want := objects[i]
		if o.Kind() != want.Kind() {
			t.Errorf("object %d: kind %q, want %q", i, o.Kind(), want.Kind())
		}
		if *o.Common() != *want.Common() {
			t.Errorf("object %d: common %+v, want %+v", i, o.Common(), want.Common())
		}
	}

	s := decoded[0].(*Stroke)
	if len(s.Points) != 3 || s.Points[1] != (Point{10, 5}) {
		t.Errorf("stroke points = %v", s.Points)
	}
	sh := decoded[3].(*Shape)
	if sh.End == nil || *sh.End != (Point{40, 30}) {
		t.Errorf("shape end = %v", sh.End)
	}
}

func TestCloneIsDetached(t *testing.T) {
	s := &Stroke{
		Meta:   Common{ID: 7, Layer: 3},
		Points: []Point{{0, 0}, {1, 1}},
	}
	c := s.Clone().(*Stroke)
	c.Points[0].X = 99
	if s.Points[0].X != 0 {
		t.Error("clone shares point storage with source")
	}

	sh := &Shape{Meta: Common{ID: 8}, Start: &Point{1, 1}}
	csh := sh.Clone().(*Shape)
	csh.Start.X = 99
	if sh.Start.X != 1 {
		t.Error("clone shares anchor storage with source")
	}
}

func TestTextLayoutWrapsAndCaches(t *testing.T) {
	txt := &Text{Content: "one two three four five six seven eight nine ten", FontSize: 16}
	lines, w, h := txt.Layout()
	if len(lines) == 0 || w <= 0 || h <= 0 {
		t.Fatalf("layout = %v lines, %v x %v", len(lines), w, h)
	}

	txt.Content = "short"
	txt.InvalidateLayout()
	lines2, w2, _ := txt.Layout()
	if len(lines2) != 1 {
		t.Errorf("expected single line, got %d", len(lines2))
	}
	if w2 >= w {
		t.Errorf("shorter content should measure narrower: %v >= %v", w2, w)
	}
}
