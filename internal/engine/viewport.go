package engine

import "github.com/basu-10/MioHub-sub000/internal/scene"

const (
	// MinZoom and MaxZoom clamp the viewport scale factor.
	MinZoom = 0.1
	MaxZoom = 5.0

	// FitPadding is the fraction of content size left as margin on each
	// side by FitToContent.
	FitPadding = 0.1

	// GridSize is the world-space spacing of the background grid.
	GridSize = 64.0
)

// Viewport maintains pan offset and zoom factor and converts between
// screen and world coordinates. Screen x maps to world as
// wx = (sx + panX) / zoom.
type Viewport struct {
	PanX float64
	PanY float64
	Zoom float64

	panning bool
}

// NewViewport returns a viewport at the default view (zoom 1, origin pan).
func NewViewport() *Viewport {
	return &Viewport{Zoom: 1}
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (v *Viewport) ScreenToWorld(sx, sy float64) (float64, float64) {
	return (sx + v.PanX) / v.Zoom, (sy + v.PanY) / v.Zoom
}

// WorldToScreen converts world coordinates to screen coordinates.
func (v *Viewport) WorldToScreen(wx, wy float64) (float64, float64) {
	return wx*v.Zoom - v.PanX, wy*v.Zoom - v.PanY
}

// ZoomAt rescales zoom by factor, clamped to [MinZoom, MaxZoom], adjusting
// pan so the world point under screen (sx, sy) stays fixed (zoom-to-cursor).
func (v *Viewport) ZoomAt(sx, sy, factor float64) {
	wx, wy := v.ScreenToWorld(sx, sy)

	v.Zoom = clampZoom(v.Zoom * factor)

	// Solve wx = (sx + panX) / zoom for the new pan.
	v.PanX = wx*v.Zoom - sx
	v.PanY = wy*v.Zoom - sy
}

// FitToContent sets zoom and pan so the union box of all objects, padded
// by FitPadding, fills a viewW x viewH viewport. Degenerate content falls
// back to the default view.
func (v *Viewport) FitToContent(objects []scene.Object, viewW, viewH float64) {
	box := UnionBounds(objects)
	if box.IsEmpty() || viewW <= 0 || viewH <= 0 {
		v.Reset()
		return
	}

	box = box.Expand(max(box.W, box.H) * FitPadding)
	v.Zoom = clampZoom(min(viewW/box.W, viewH/box.H))

	// Center the padded box in the viewport.
	v.PanX = box.X*v.Zoom - (viewW-box.W*v.Zoom)/2
	v.PanY = box.Y*v.Zoom - (viewH-box.H*v.Zoom)/2
}

// Reset restores the default view.
func (v *Viewport) Reset() {
	v.PanX = 0
	v.PanY = 0
	v.Zoom = 1
}

// StartPan begins a pan drag.
func (v *Viewport) StartPan() {
	v.panning = true
}

// UpdatePan accumulates a screen-space drag delta into the pan offset.
// Ignored unless a pan drag is active.
func (v *Viewport) UpdatePan(dx, dy float64) {
	if !v.panning {
		return
	}
	v.PanX -= dx
	v.PanY -= dy
}

// EndPan finishes a pan drag.
func (v *Viewport) EndPan() {
	v.panning = false
}

// Panning reports whether a pan drag is active.
func (v *Viewport) Panning() bool { return v.panning }

// GridStep returns the screen-space spacing of the background grid at the
// current zoom, doubled until it stays legible (at least half the base
// spacing on screen).
func (v *Viewport) GridStep() float64 {
	step := GridSize * v.Zoom
	for step < GridSize/2 {
		step *= 2
	}
	return step
}

func clampZoom(z float64) float64 {
	return max(MinZoom, min(MaxZoom, z))
}
