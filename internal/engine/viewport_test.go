package engine

import (
	"math"
	"testing"

	"github.com/basu-10/MioHub-sub000/internal/scene"
)

func TestScreenWorldRoundTrip(t *testing.T) {
	v := NewViewport()
	v.PanX, v.PanY, v.Zoom = 120, -40, 1.7

	wx, wy := v.ScreenToWorld(300, 200)
	sx, sy := v.WorldToScreen(wx, wy)
	if math.Abs(sx-300) > 1e-9 || math.Abs(sy-200) > 1e-9 {
		t.Errorf("round trip gave (%v, %v)", sx, sy)
	}
}

func TestZoomAtKeepsCursorFixed(t *testing.T) {
	v := NewViewport()
	v.PanX, v.PanY, v.Zoom = 50, 80, 1.0

	const sx, sy = 400.0, 300.0
	wantX, wantY := v.ScreenToWorld(sx, sy)

	v.ZoomAt(sx, sy, 1.5)

	gotX, gotY := v.ScreenToWorld(sx, sy)
	if math.Abs(gotX-wantX) > 1e-9 || math.Abs(gotY-wantY) > 1e-9 {
		t.Errorf("world point under cursor moved: (%v, %v) -> (%v, %v)", wantX, wantY, gotX, gotY)
	}
	if v.Zoom != 1.5 {
		t.Errorf("zoom = %v", v.Zoom)
	}
}

func TestZoomClamped(t *testing.T) {
	v := NewViewport()
	v.ZoomAt(0, 0, 100)
	if v.Zoom != MaxZoom {
		t.Errorf("zoom = %v, want clamp at %v", v.Zoom, MaxZoom)
	}
	v.ZoomAt(0, 0, 1e-6)
	if v.Zoom != MinZoom {
		t.Errorf("zoom = %v, want clamp at %v", v.Zoom, MinZoom)
	}
}

func TestPanIsStatefulDrag(t *testing.T) {
	v := NewViewport()

	// Deltas before StartPan are ignored.
	v.UpdatePan(10, 10)
	if v.PanX != 0 || v.PanY != 0 {
		t.Fatal("pan moved without an active drag")
	}

	v.StartPan()
	v.UpdatePan(10, 5)
	v.UpdatePan(10, 5)
	v.EndPan()
	v.UpdatePan(100, 100)

	if v.PanX != -20 || v.PanY != -10 {
		t.Errorf("pan = (%v, %v)", v.PanX, v.PanY)
	}
}

func TestFitToContent(t *testing.T) {
	objects := []scene.Object{
		&scene.Shape{Meta: scene.Common{ID: 1}, X: 100, Y: 100, W: 200, H: 100, Form: scene.FormRectangle},
	}

	v := NewViewport()
	v.FitToContent(objects, 800, 600)

	// The content box (plus padding) must land fully on screen.
	box := UnionBounds(objects)
	x0, y0 := v.WorldToScreen(box.X, box.Y)
	x1, y1 := v.WorldToScreen(box.X+box.W, box.Y+box.H)
	if x0 < 0 || y0 < 0 || x1 > 800 || y1 > 600 {
		t.Errorf("content not contained: (%v,%v)-(%v,%v)", x0, y0, x1, y1)
	}

	// Empty scene falls back to the default view.
	v.FitToContent(nil, 800, 600)
	if v.Zoom != 1 || v.PanX != 0 || v.PanY != 0 {
		t.Errorf("empty fit = zoom %v pan (%v, %v)", v.Zoom, v.PanX, v.PanY)
	}
}
