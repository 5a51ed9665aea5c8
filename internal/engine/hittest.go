package engine

import (
	"sort"

	"github.com/basu-10/MioHub-sub000/internal/scene"
)

// TopObjectAt returns the topmost object under the given world-space point,
// or nil. Candidates are tested front to back, the exact reverse of render
// order, so what the user sees on top is what they pick. O(n) over the
// page; scenes are interactive-editor-sized.
func TopObjectAt(p scene.Point, objects []scene.Object) scene.Object {
	ordered := make([]scene.Object, len(objects))
	copy(ordered, objects)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].Common(), ordered[j].Common()
		if a.Layer != b.Layer {
			return a.Layer > b.Layer
		}
		return a.ID > b.ID
	})

	for _, o := range ordered {
		if hits(p, o) {
			return o
		}
	}
	return nil
}

func hits(p scene.Point, o scene.Object) bool {
	switch v := o.(type) {
	case *scene.Stroke:
		return strokeHit(p, v)
	case *scene.Image:
		return rotatedRectHit(p, v.X, v.Y, v.W, v.H, v.Rotation)
	case *scene.Text:
		return Bounds(v).Contains(p.X, p.Y)
	case *scene.Shape:
		return rotatedRectHit(p, v.X, v.Y, v.W, v.H, v.Rotation)
	default:
		return false
	}
}

// strokeHit tests point-to-polyline distance against half the stroke width.
func strokeHit(p scene.Point, s *scene.Stroke) bool {
	if len(s.Points) < 2 {
		return false
	}
	threshold := s.Width / 2
	for i := 1; i < len(s.Points); i++ {
		if distanceToSegment(p, s.Points[i-1], s.Points[i]) <= threshold {
			return true
		}
	}
	return false
}

// rotatedRectHit maps the point back through the inverse of the object's
// rotation and tests the unrotated rect, so rotated objects pick exactly
// where they draw.
func rotatedRectHit(p scene.Point, x, y, w, h, rotation float64) bool {
	r := scene.Rect{X: x, Y: y, W: w, H: h}
	if rotation == 0 {
		return r.Contains(p.X, p.Y)
	}
	c := r.Center()
	lx, ly := AboutCenter(c.X, c.Y, rotation, false, false).Invert().TransformPoint(p.X, p.Y)
	return r.Contains(lx, ly)
}

// distanceToSegment returns the distance from p to the segment a-b.
func distanceToSegment(p, a, b scene.Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Distance(a)
	}

	// Project p onto the segment, clamped to its endpoints.
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = max(0, min(1, t))

	return p.Distance(scene.Point{X: a.X + t*dx, Y: a.Y + t*dy})
}
