package engine

import (
	"log/slog"

	"github.com/basu-10/MioHub-sub000/internal/scene"
)

// Action is one logged, invertible record of a committed mutation. The set
// of implementations is closed (the unexported name method sees to that):
// every mutation kind the editor can commit has exactly one Action type
// carrying the before/after state needed to replay it in either direction.
//
// Apply and Invert tolerate missing ids: stale actions degrade to no-ops
// with a diagnostic log line, never to a user-visible failure.
type Action interface {
	name() string
	Apply(objs *[]scene.Object)
	Invert(objs *[]scene.Object)
}

// AddAction records the insertion of one object.
type AddAction struct {
	Object scene.Object
}

func (a *AddAction) name() string { return "add" }

func (a *AddAction) Apply(objs *[]scene.Object) {
	*objs = append(*objs, a.Object.Clone())
}

func (a *AddAction) Invert(objs *[]scene.Object) {
	removeByID(objs, a.Object.Common().ID)
}

// DeleteAction records the removal of one object and its slice position,
// so undo restores it exactly where it was.
type DeleteAction struct {
	Object scene.Object
	Index  int
}

func (a *DeleteAction) name() string { return "delete" }

func (a *DeleteAction) Apply(objs *[]scene.Object) {
	removeByID(objs, a.Object.Common().ID)
}

func (a *DeleteAction) Invert(objs *[]scene.Object) {
	insertAt(objs, a.Object.Clone(), a.Index)
}

// MoveAction records a translation of one or more objects. A drag gesture
// commits a single MoveAction for its net displacement.
type MoveAction struct {
	IDs []int
	DX  float64
	DY  float64
}

func (a *MoveAction) name() string { return "move" }

func (a *MoveAction) Apply(objs *[]scene.Object) {
	a.translate(objs, a.DX, a.DY)
}

func (a *MoveAction) Invert(objs *[]scene.Object) {
	a.translate(objs, -a.DX, -a.DY)
}

func (a *MoveAction) translate(objs *[]scene.Object, dx, dy float64) {
	for _, id := range a.IDs {
		if o := byID(*objs, id); o != nil {
			o.Translate(dx, dy)
		}
	}
}

// ResizeAction records a bounds change, as full before/after snapshots.
type ResizeAction struct {
	ID     int
	Before scene.Object
	After  scene.Object
}

func (a *ResizeAction) name() string { return "resize" }

func (a *ResizeAction) Apply(objs *[]scene.Object)  { replaceByID(objs, a.ID, a.After) }
func (a *ResizeAction) Invert(objs *[]scene.Object) { replaceByID(objs, a.ID, a.Before) }

// RotateAction records a rotation change on an image or shape.
type RotateAction struct {
	ID     int
	Before float64
	After  float64
}

func (a *RotateAction) name() string { return "rotate" }

func (a *RotateAction) Apply(objs *[]scene.Object)  { setRotation(objs, a.ID, a.After) }
func (a *RotateAction) Invert(objs *[]scene.Object) { setRotation(objs, a.ID, a.Before) }

// FlipAction records a mirror toggle. Flipping is its own inverse.
type FlipAction struct {
	ID         int
	Horizontal bool
}

func (a *FlipAction) name() string { return "flip" }

func (a *FlipAction) Apply(objs *[]scene.Object) {
	o := byID(*objs, a.ID)
	switch v := o.(type) {
	case *scene.Image:
		if a.Horizontal {
			v.FlipH = !v.FlipH
		} else {
			v.FlipV = !v.FlipV
		}
	case *scene.Shape:
		if a.Horizontal {
			v.FlipH = !v.FlipH
		} else {
			v.FlipV = !v.FlipV
		}
	default:
		slog.Debug("flip on missing or non-flippable object", "id", a.ID)
	}
}

func (a *FlipAction) Invert(objs *[]scene.Object) { a.Apply(objs) }

// ColorAction records a color change.
type ColorAction struct {
	ID     int
	Before string
	After  string
}

func (a *ColorAction) name() string { return "colorChange" }

func (a *ColorAction) Apply(objs *[]scene.Object)  { setColor(objs, a.ID, a.After) }
func (a *ColorAction) Invert(objs *[]scene.Object) { setColor(objs, a.ID, a.Before) }

// WidthAction records a stroke/outline width change.
type WidthAction struct {
	ID     int
	Before float64
	After  float64
}

func (a *WidthAction) name() string { return "widthChange" }

func (a *WidthAction) Apply(objs *[]scene.Object)  { setWidth(objs, a.ID, a.After) }
func (a *WidthAction) Invert(objs *[]scene.Object) { setWidth(objs, a.ID, a.Before) }

// TextEditAction records a content or font change on a text object, as
// full before/after snapshots so wrap caches rebuild cleanly.
type TextEditAction struct {
	ID     int
	Before *scene.Text
	After  *scene.Text
}

func (a *TextEditAction) name() string { return "textEdit" }

func (a *TextEditAction) Apply(objs *[]scene.Object)  { replaceByID(objs, a.ID, a.After) }
func (a *TextEditAction) Invert(objs *[]scene.Object) { replaceByID(objs, a.ID, a.Before) }

// LayerAction records a z-order change.
type LayerAction struct {
	ID     int
	Before int
	After  int
}

func (a *LayerAction) name() string { return "layerOp" }

func (a *LayerAction) Apply(objs *[]scene.Object)  { setLayer(objs, a.ID, a.After) }
func (a *LayerAction) Invert(objs *[]scene.Object) { setLayer(objs, a.ID, a.Before) }

// TransformAction records a combined scale/rotate change (e.g. dragging the
// rotate handle of a multi-selection, or aspect-locked stroke scaling), as
// full before/after snapshots per object.
type TransformAction struct {
	IDs    []int
	Before []scene.Object
	After  []scene.Object
}

func (a *TransformAction) name() string { return "transform" }

func (a *TransformAction) Apply(objs *[]scene.Object) {
	for i, id := range a.IDs {
		replaceByID(objs, id, a.After[i])
	}
}

func (a *TransformAction) Invert(objs *[]scene.Object) {
	for i, id := range a.IDs {
		replaceByID(objs, id, a.Before[i])
	}
}

// BatchDeleteAction records the removal of several objects at once, each
// with its original slice position.
type BatchDeleteAction struct {
	Items []DeletedObject
}

// DeletedObject pairs a removed object with its original index.
type DeletedObject struct {
	Object scene.Object
	Index  int
}

func (a *BatchDeleteAction) name() string { return "batchDelete" }

func (a *BatchDeleteAction) Apply(objs *[]scene.Object) {
	for _, item := range a.Items {
		removeByID(objs, item.Object.Common().ID)
	}
}

func (a *BatchDeleteAction) Invert(objs *[]scene.Object) {
	// Restore in ascending index order so each lands at its old position.
	items := make([]DeletedObject, len(a.Items))
	copy(items, a.Items)
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].Index < items[j-1].Index; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
	for _, item := range items {
		insertAt(objs, item.Object.Clone(), item.Index)
	}
}

// --- shared mutation helpers ---

func indexByID(objs []scene.Object, id int) int {
	for i, o := range objs {
		if o.Common().ID == id {
			return i
		}
	}
	return -1
}

func byID(objs []scene.Object, id int) scene.Object {
	if i := indexByID(objs, id); i >= 0 {
		return objs[i]
	}
	slog.Debug("object not found", "id", id)
	return nil
}

func removeByID(objs *[]scene.Object, id int) {
	i := indexByID(*objs, id)
	if i < 0 {
		slog.Debug("remove: object not found", "id", id)
		return
	}
	*objs = append((*objs)[:i], (*objs)[i+1:]...)
}

func insertAt(objs *[]scene.Object, o scene.Object, index int) {
	if index < 0 || index > len(*objs) {
		index = len(*objs)
	}
	*objs = append(*objs, nil)
	copy((*objs)[index+1:], (*objs)[index:])
	(*objs)[index] = o
}

func replaceByID(objs *[]scene.Object, id int, with scene.Object) {
	i := indexByID(*objs, id)
	if i < 0 || with == nil {
		slog.Debug("replace: object not found", "id", id)
		return
	}
	(*objs)[i] = with.Clone()
}

func setRotation(objs *[]scene.Object, id int, radians float64) {
	switch v := byID(*objs, id).(type) {
	case *scene.Image:
		v.Rotation = radians
	case *scene.Shape:
		v.Rotation = radians
	}
}

func setColor(objs *[]scene.Object, id int, color string) {
	switch v := byID(*objs, id).(type) {
	case *scene.Stroke:
		v.Color = color
	case *scene.Text:
		v.Color = color
	case *scene.Shape:
		v.Color = color
	}
}

func setWidth(objs *[]scene.Object, id int, width float64) {
	switch v := byID(*objs, id).(type) {
	case *scene.Stroke:
		v.Width = width
	case *scene.Shape:
		v.Width = width
	}
}

func setLayer(objs *[]scene.Object, id int, layer int) {
	if o := byID(*objs, id); o != nil {
		o.Common().Layer = layer
	}
}
