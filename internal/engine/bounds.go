package engine

import (
	"math"

	"github.com/basu-10/MioHub-sub000/internal/scene"
)

// Bounds returns the axis-aligned box covering an object in world space.
// A single bounds function feeds hit-testing, selection highlighting and
// fit-to-content, so the three can never disagree about where an object is.
func Bounds(o scene.Object) scene.Rect {
	switch v := o.(type) {
	case *scene.Stroke:
		return strokeBounds(v)
	case *scene.Image:
		return rotatedBounds(v.X, v.Y, v.W, v.H, v.Rotation)
	case *scene.Text:
		_, w, h := v.Layout()
		return scene.Rect{X: v.X, Y: v.Y, W: w, H: h}.Expand(scene.TextPadding)
	case *scene.Shape:
		return rotatedBounds(v.X, v.Y, v.W, v.H, v.Rotation)
	default:
		return scene.Rect{}
	}
}

// strokeBounds is the min/max over all points, expanded by half the stroke
// width on each side.
func strokeBounds(s *scene.Stroke) scene.Rect {
	if len(s.Points) == 0 {
		return scene.Rect{}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range s.Points {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}

	return scene.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}.Expand(s.Width / 2)
}

// rotatedBounds returns the enclosing box of a rectangle rotated about its
// own center. Flips never change the enclosing box, so they are ignored.
func rotatedBounds(x, y, w, h, rotation float64) scene.Rect {
	r := scene.Rect{X: x, Y: y, W: w, H: h}
	if rotation == 0 {
		return r
	}
	c := r.Center()
	return AboutCenter(c.X, c.Y, rotation, false, false).TransformRect(r)
}

// UnionBounds returns the union box of all objects, or an empty rect for
// an empty list.
func UnionBounds(objects []scene.Object) scene.Rect {
	var u scene.Rect
	for _, o := range objects {
		u = u.Union(Bounds(o))
	}
	return u
}

// BoundsOf returns the union box of the objects with the given ids.
// Unknown ids are skipped.
func BoundsOf(objects []scene.Object, ids []int) scene.Rect {
	var u scene.Rect
	for _, o := range objects {
		for _, id := range ids {
			if o.Common().ID == id {
				u = u.Union(Bounds(o))
				break
			}
		}
	}
	return u
}
