package engine

import (
	"sort"

	"github.com/basu-10/MioHub-sub000/internal/scene"
)

const (
	// SelectionMargin expands the aggregate box drawn around a selection.
	SelectionMargin = 8.0

	// HandleSize is the side length of the square interactive handles.
	HandleSize = 16.0
)

// HandleKind identifies an interactive handle on the aggregate selection box.
type HandleKind string

const (
	HandleNone   HandleKind = ""
	HandleMove   HandleKind = "move"   // top-center
	HandleRotate HandleKind = "rotate" // right-center
	HandleMirror HandleKind = "mirror" // left-center
)

// Selection tracks the selected object ids, the primary (last-touched) id
// and the cached aggregate box plus handle positions. Session-local, never
// persisted. The zero id means "no primary"; object ids start at 1.
type Selection struct {
	ids     map[int]struct{}
	primary int

	bounds  scene.Rect
	handles map[HandleKind]scene.Rect
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[int]struct{})}
}

// SelectSingle replaces the selection with a single id.
func (s *Selection) SelectSingle(id int) {
	clear(s.ids)
	s.ids[id] = struct{}{}
	s.primary = id
}

// Add adds an id to the selection and makes it primary.
func (s *Selection) Add(id int) {
	s.ids[id] = struct{}{}
	s.primary = id
}

// Toggle adds the id if absent, removes it if present (shift-click).
func (s *Selection) Toggle(id int) {
	if _, ok := s.ids[id]; ok {
		s.Remove(id)
		return
	}
	s.Add(id)
}

// Remove drops an id. Removing the primary reassigns it to some remaining
// member; no particular order is promised.
func (s *Selection) Remove(id int) {
	delete(s.ids, id)
	if s.primary != id {
		return
	}
	s.primary = 0
	for remaining := range s.ids {
		s.primary = remaining
		break
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	clear(s.ids)
	s.primary = 0
	s.bounds = scene.Rect{}
	s.handles = nil
}

// Has reports whether id is selected.
func (s *Selection) Has(id int) bool {
	_, ok := s.ids[id]
	return ok
}

// IDs returns the selected ids in ascending order.
func (s *Selection) IDs() []int {
	ids := make([]int, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Primary returns the primary id, or 0 for an empty selection.
func (s *Selection) Primary() int { return s.primary }

// Len returns the selection cardinality.
func (s *Selection) Len() int { return len(s.ids) }

// Recompute refreshes the aggregate box and handle positions from the
// current member geometry. Must be called whenever the selection set or
// any member's geometry changes.
func (s *Selection) Recompute(objects []scene.Object) {
	// Drop ids whose objects no longer exist.
	present := make(map[int]struct{}, len(objects))
	for _, o := range objects {
		present[o.Common().ID] = struct{}{}
	}
	for id := range s.ids {
		if _, ok := present[id]; !ok {
			s.Remove(id)
		}
	}

	if len(s.ids) == 0 {
		s.bounds = scene.Rect{}
		s.handles = nil
		return
	}

	s.bounds = BoundsOf(objects, s.IDs()).Expand(SelectionMargin)
	s.handles = map[HandleKind]scene.Rect{
		HandleMove:   handleBox(s.bounds.X+s.bounds.W/2, s.bounds.Y),
		HandleRotate: handleBox(s.bounds.X+s.bounds.W, s.bounds.Y+s.bounds.H/2),
		HandleMirror: handleBox(s.bounds.X, s.bounds.Y+s.bounds.H/2),
	}
}

// Bounds returns the cached aggregate box (including margin).
func (s *Selection) Bounds() scene.Rect { return s.bounds }

// Handles returns the cached handle boxes keyed by kind.
func (s *Selection) Handles() map[HandleKind]scene.Rect { return s.handles }

// HandleAt returns the handle under a world-space point, if any.
// Simple box containment at fixed handle size.
func (s *Selection) HandleAt(p scene.Point) HandleKind {
	for kind, box := range s.handles {
		if box.Contains(p.X, p.Y) {
			return kind
		}
	}
	return HandleNone
}

func handleBox(cx, cy float64) scene.Rect {
	return scene.Rect{
		X: cx - HandleSize/2,
		Y: cy - HandleSize/2,
		W: HandleSize,
		H: HandleSize,
	}
}
