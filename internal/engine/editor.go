package engine

import (
	"bytes"
	"log/slog"
	"math"

	"github.com/basu-10/MioHub-sub000/internal/document"
	"github.com/basu-10/MioHub-sub000/internal/scene"
)

// Editor owns all session state for one open document: viewport, selection,
// clipboard, per-page undo histories and any in-progress gesture. Every
// mutation commits through here so the object change and its history entry
// always happen together. Editors are single-threaded by contract; all
// calls happen on the owning event loop.
type Editor struct {
	doc       *document.Document
	viewport  *Viewport
	selection *Selection
	clipboard *Clipboard

	histories    map[string]*History
	historyLimit int

	pending *scene.Stroke
	drag    *dragState
}

type gestureKind int

const (
	gestureMove gestureKind = iota
	gestureTransform
)

// dragState snapshots the selection members when a gesture begins. Updates
// re-derive the live objects from the snapshots each frame, so the gesture
// is idempotent per frame and Escape can restore the snapshots verbatim.
type dragState struct {
	kind   gestureKind
	ids    []int
	before []scene.Object
	box    scene.Rect // aggregate bounds at gesture start, without margin
	dx, dy float64
}

// NewEditor wraps a document in a fresh editing session.
func NewEditor(doc *document.Document, historyLimit int) *Editor {
	if doc == nil {
		doc = document.New()
	}
	return &Editor{
		doc:          doc,
		viewport:     NewViewport(),
		selection:    NewSelection(),
		clipboard:    NewClipboard(),
		histories:    make(map[string]*History),
		historyLimit: historyLimit,
	}
}

// Document returns the underlying document.
func (e *Editor) Document() *document.Document { return e.doc }

// Viewport returns the editor's viewport.
func (e *Editor) Viewport() *Viewport { return e.viewport }

// Selection returns the editor's selection state.
func (e *Editor) Selection() *Selection { return e.selection }

// Clipboard returns the editor's clipboard.
func (e *Editor) Clipboard() *Clipboard { return e.clipboard }

// Objects returns the current page's object list.
func (e *Editor) Objects() []scene.Object { return e.doc.CurrentPage().Objects }

func (e *Editor) objects() *[]scene.Object { return &e.doc.CurrentPage().Objects }

// History returns the undo log of the current page.
func (e *Editor) History() *History {
	id := e.doc.CurrentPage().ID
	h, ok := e.histories[id]
	if !ok {
		h = NewHistory(e.historyLimit)
		e.histories[id] = h
	}
	return h
}

// commit applies an action and records it. The two together are one
// logical mutation; nothing observes the state in between.
func (e *Editor) commit(a Action) {
	a.Apply(e.objects())
	e.History().Record(a)
	e.selection.Recompute(e.Objects())
}

// record logs an action whose effect is already live (gesture commits).
func (e *Editor) record(a Action) {
	e.History().Record(a)
	e.selection.Recompute(e.Objects())
}

// --- adding objects ---

// CommitStroke validates and adds a finished stroke. Strokes with fewer
// than two points are discarded, never persisted. Returns the live object
// or nil.
func (e *Editor) CommitStroke(points []scene.Point, tool scene.StrokeTool, color string, width, opacity float64) *scene.Stroke {
	if len(points) < 2 {
		slog.Debug("discarding degenerate stroke", "points", len(points))
		return nil
	}
	s := &scene.Stroke{
		Meta:    scene.Common{ID: e.doc.AllocateID()},
		Points:  points,
		Tool:    tool,
		Color:   color,
		Width:   width,
		Opacity: opacity,
	}
	e.commit(&AddAction{Object: s})
	return byID(e.Objects(), s.Meta.ID).(*scene.Stroke)
}

// AddImage places an image object.
func (e *Editor) AddImage(x, y, w, h float64, source string) *scene.Image {
	im := &scene.Image{
		Meta: scene.Common{ID: e.doc.AllocateID()},
		X:    x, Y: y, W: w, H: h,
		Source: source,
	}
	e.commit(&AddAction{Object: im})
	return byID(e.Objects(), im.Meta.ID).(*scene.Image)
}

// AddText places a text object.
func (e *Editor) AddText(x, y float64, content string, fontSize float64, color string, bold, italic bool) *scene.Text {
	t := &scene.Text{
		Meta: scene.Common{ID: e.doc.AllocateID()},
		X:    x, Y: y,
		Content: content, FontSize: fontSize, Color: color,
		Bold: bold, Italic: italic,
	}
	e.commit(&AddAction{Object: t})
	return byID(e.Objects(), t.Meta.ID).(*scene.Text)
}

// AddShape places a shape object.
func (e *Editor) AddShape(x, y, w, h float64, form scene.ShapeForm, color string, width float64) *scene.Shape {
	sh := &scene.Shape{
		Meta: scene.Common{ID: e.doc.AllocateID()},
		X:    x, Y: y, W: w, H: h,
		Form: form, Color: color, Width: width,
	}
	e.commit(&AddAction{Object: sh})
	return byID(e.Objects(), sh.Meta.ID).(*scene.Shape)
}

// --- in-progress drawing ---

// BeginStroke starts an in-progress stroke. It is drawn by the render loop
// but not part of the page until EndStroke commits it.
func (e *Editor) BeginStroke(p scene.Point, tool scene.StrokeTool, color string, width, opacity float64) {
	e.pending = &scene.Stroke{
		Points:  []scene.Point{p},
		Tool:    tool,
		Color:   color,
		Width:   width,
		Opacity: opacity,
	}
}

// AppendStrokePoint extends the in-progress stroke.
func (e *Editor) AppendStrokePoint(p scene.Point) {
	if e.pending == nil {
		return
	}
	e.pending.Points = append(e.pending.Points, p)
}

// EndStroke commits the in-progress stroke (or discards it if degenerate).
func (e *Editor) EndStroke() *scene.Stroke {
	if e.pending == nil {
		return nil
	}
	s := e.pending
	e.pending = nil
	return e.CommitStroke(s.Points, s.Tool, s.Color, s.Width, s.Opacity)
}

// Pending returns the in-progress stroke for rendering, or nil.
func (e *Editor) Pending() *scene.Stroke { return e.pending }

// --- selection ---

// SelectAt hit-tests the world point and updates the selection. Plain
// click selects the top object (or clears on background); additive click
// toggles membership.
func (e *Editor) SelectAt(p scene.Point, additive bool) scene.Object {
	hit := TopObjectAt(p, e.Objects())
	if hit == nil {
		if !additive {
			e.selection.Clear()
		}
		return nil
	}

	if additive {
		e.selection.Toggle(hit.Common().ID)
	} else {
		e.selection.SelectSingle(hit.Common().ID)
	}
	e.selection.Recompute(e.Objects())
	return hit
}

// ClearSelection empties the selection (background click, Escape at rest).
func (e *Editor) ClearSelection() {
	e.selection.Clear()
}

// --- committed single-step mutations ---

// MoveSelection nudges all selected objects and logs one move action.
func (e *Editor) MoveSelection(dx, dy float64) {
	ids := e.selection.IDs()
	if len(ids) == 0 || (dx == 0 && dy == 0) {
		return
	}
	e.commit(&MoveAction{IDs: ids, DX: dx, DY: dy})
}

// DeleteSelection removes all selected objects as one batch-delete action.
func (e *Editor) DeleteSelection() int {
	ids := e.selection.IDs()
	if len(ids) == 0 {
		return 0
	}

	objs := e.Objects()
	items := make([]DeletedObject, 0, len(ids))
	for _, id := range ids {
		if i := indexByID(objs, id); i >= 0 {
			items = append(items, DeletedObject{Object: objs[i].Clone(), Index: i})
		}
	}
	e.selection.Clear()
	e.commit(&BatchDeleteAction{Items: items})
	return len(items)
}

// ResizeObject sets an object's bounds. For strokes the points are scaled
// relative to the old bounds; when the aspect ratio is locked, both axes
// use the averaged scale factor (scaleX+scaleY)/2, a known approximation
// kept for parity with how boards behaved historically.
func (e *Editor) ResizeObject(id int, to scene.Rect, lockAspect bool) {
	o := byID(e.Objects(), id)
	if o == nil || to.IsEmpty() {
		return
	}
	before := o.Clone()

	switch v := o.(type) {
	case *scene.Stroke:
		from := strokeBounds(v)
		if from.IsEmpty() {
			return
		}
		sx := to.W / from.W
		sy := to.H / from.H
		if lockAspect {
			avg := (sx + sy) / 2
			sx, sy = avg, avg
		}
		for i, p := range v.Points {
			v.Points[i] = scene.Point{
				X: to.X + (p.X-from.X)*sx,
				Y: to.Y + (p.Y-from.Y)*sy,
			}
		}
		v.Width *= (sx + sy) / 2
	case *scene.Image:
		v.X, v.Y, v.W, v.H = to.X, to.Y, to.W, to.H
	case *scene.Shape:
		v.X, v.Y, v.W, v.H = to.X, to.Y, to.W, to.H
	case *scene.Text:
		// Text extent follows its content; only the origin moves.
		v.X, v.Y = to.X, to.Y
	}

	e.record(&ResizeAction{ID: id, Before: before, After: o.Clone()})
}

// RotateObject sets the rotation of an image or shape.
func (e *Editor) RotateObject(id int, radians float64) {
	switch v := byID(e.Objects(), id).(type) {
	case *scene.Image:
		e.commit(&RotateAction{ID: id, Before: v.Rotation, After: radians})
	case *scene.Shape:
		e.commit(&RotateAction{ID: id, Before: v.Rotation, After: radians})
	default:
		slog.Debug("rotate on non-rotatable object", "id", id)
	}
}

// FlipObject mirrors an image or shape in place.
func (e *Editor) FlipObject(id int, horizontal bool) {
	switch byID(e.Objects(), id).(type) {
	case *scene.Image, *scene.Shape:
		e.commit(&FlipAction{ID: id, Horizontal: horizontal})
	default:
		slog.Debug("flip on non-flippable object", "id", id)
	}
}

// FlipSelection mirrors the whole selection about its aggregate center
// (the mirror handle), committing one transform action.
func (e *Editor) FlipSelection(horizontal bool) {
	ids := e.selection.IDs()
	if len(ids) == 0 {
		return
	}
	box := BoundsOf(e.Objects(), ids)
	c := box.Center()

	before := make([]scene.Object, 0, len(ids))
	after := make([]scene.Object, 0, len(ids))
	for _, id := range ids {
		o := byID(e.Objects(), id)
		if o == nil {
			continue
		}
		before = append(before, o.Clone())
		mirrorObject(o, c, horizontal)
		after = append(after, o.Clone())
	}
	e.record(&TransformAction{IDs: ids, Before: before, After: after})
}

// SetColor changes an object's color.
func (e *Editor) SetColor(id int, color string) {
	switch v := byID(e.Objects(), id).(type) {
	case *scene.Stroke:
		e.commit(&ColorAction{ID: id, Before: v.Color, After: color})
	case *scene.Text:
		e.commit(&ColorAction{ID: id, Before: v.Color, After: color})
	case *scene.Shape:
		e.commit(&ColorAction{ID: id, Before: v.Color, After: color})
	default:
		slog.Debug("recolor on missing or colorless object", "id", id)
	}
}

// SetWidth changes a stroke's or shape outline's width.
func (e *Editor) SetWidth(id int, width float64) {
	switch v := byID(e.Objects(), id).(type) {
	case *scene.Stroke:
		e.commit(&WidthAction{ID: id, Before: v.Width, After: width})
	case *scene.Shape:
		e.commit(&WidthAction{ID: id, Before: v.Width, After: width})
	default:
		slog.Debug("width change on widthless object", "id", id)
	}
}

// EditText replaces a text object's content and font attributes.
func (e *Editor) EditText(id int, content string, fontSize float64, bold, italic bool) {
	t, ok := byID(e.Objects(), id).(*scene.Text)
	if !ok {
		slog.Debug("text edit on non-text object", "id", id)
		return
	}
	before := t.Clone().(*scene.Text)
	after := t.Clone().(*scene.Text)
	after.Content = content
	after.FontSize = fontSize
	after.Bold = bold
	after.Italic = italic
	e.commit(&TextEditAction{ID: id, Before: before, After: after})
}

// SetLayer moves an object to an explicit z-order value.
func (e *Editor) SetLayer(id int, layer int) {
	o := byID(e.Objects(), id)
	if o == nil || o.Common().Layer == layer {
		return
	}
	e.commit(&LayerAction{ID: id, Before: o.Common().Layer, After: layer})
}

// RaiseObject moves an object one layer up.
func (e *Editor) RaiseObject(id int) {
	if o := byID(e.Objects(), id); o != nil {
		e.SetLayer(id, o.Common().Layer+1)
	}
}

// LowerObject moves an object one layer down.
func (e *Editor) LowerObject(id int) {
	if o := byID(e.Objects(), id); o != nil {
		e.SetLayer(id, o.Common().Layer-1)
	}
}

// --- gestures ---

// BeginMove starts a move drag over the current selection.
func (e *Editor) BeginMove() {
	e.beginGesture(gestureMove)
}

// BeginTransform starts a resize/rotate drag over the current selection.
func (e *Editor) BeginTransform() {
	e.beginGesture(gestureTransform)
}

func (e *Editor) beginGesture(kind gestureKind) {
	ids := e.selection.IDs()
	if len(ids) == 0 {
		return
	}
	before := make([]scene.Object, len(ids))
	for i, id := range ids {
		before[i] = byID(e.Objects(), id).Clone()
	}
	e.drag = &dragState{
		kind:   kind,
		ids:    ids,
		before: before,
		box:    BoundsOf(e.Objects(), ids),
	}
}

// UpdateMove sets the live displacement of a move drag. Intermediate
// positions are never individually undoable.
func (e *Editor) UpdateMove(dx, dy float64) {
	d := e.drag
	if d == nil || d.kind != gestureMove {
		return
	}
	d.dx, d.dy = dx, dy
	for i, id := range d.ids {
		restoreFrom(byID(e.Objects(), id), d.before[i])
		if o := byID(e.Objects(), id); o != nil {
			o.Translate(dx, dy)
		}
	}
	e.selection.Recompute(e.Objects())
}

// UpdateRotate sets the live rotation delta of a transform drag, applied
// about the aggregate center captured at gesture start.
func (e *Editor) UpdateRotate(delta float64) {
	d := e.drag
	if d == nil || d.kind != gestureTransform {
		return
	}
	c := d.box.Center()
	for i, id := range d.ids {
		o := byID(e.Objects(), id)
		if o == nil {
			continue
		}
		restoreFrom(o, d.before[i])
		rotateObjectAbout(byID(e.Objects(), id), c, delta)
	}
	e.selection.Recompute(e.Objects())
}

// UpdateResize sets the live scale factors of a transform drag, relative
// to the aggregate box captured at gesture start.
func (e *Editor) UpdateResize(scaleX, scaleY float64, lockAspect bool) {
	d := e.drag
	if d == nil || d.kind != gestureTransform {
		return
	}
	if lockAspect {
		avg := (scaleX + scaleY) / 2
		scaleX, scaleY = avg, avg
	}
	for i, id := range d.ids {
		o := byID(e.Objects(), id)
		if o == nil {
			continue
		}
		restoreFrom(o, d.before[i])
		scaleObjectFrom(byID(e.Objects(), id), d.box, scaleX, scaleY)
	}
	e.selection.Recompute(e.Objects())
}

// EndGesture commits the in-progress gesture as a single action covering
// its net effect. A gesture with no net effect records nothing.
func (e *Editor) EndGesture() {
	d := e.drag
	e.drag = nil
	if d == nil {
		return
	}

	switch d.kind {
	case gestureMove:
		if d.dx == 0 && d.dy == 0 {
			return
		}
		e.record(&MoveAction{IDs: d.ids, DX: d.dx, DY: d.dy})
	case gestureTransform:
		after := make([]scene.Object, len(d.ids))
		changed := false
		for i, id := range d.ids {
			o := byID(e.Objects(), id)
			if o == nil {
				return
			}
			after[i] = o.Clone()
			if !changed {
				changed = !sameObject(o, d.before[i])
			}
		}
		if !changed {
			return
		}
		e.record(&TransformAction{IDs: d.ids, Before: d.before, After: after})
	}
}

// CancelGesture discards any in-progress gesture or stroke (Escape). The
// page is left exactly as it was before the gesture began; nothing is
// recorded.
func (e *Editor) CancelGesture() {
	e.pending = nil
	d := e.drag
	e.drag = nil
	if d == nil {
		return
	}
	for i, id := range d.ids {
		restoreFrom(byID(e.Objects(), id), d.before[i])
	}
	e.selection.Recompute(e.Objects())
}

// Dragging reports whether a gesture is in progress.
func (e *Editor) Dragging() bool { return e.drag != nil }

// --- clipboard ---

// Copy snapshots the selection onto the clipboard.
func (e *Editor) Copy() int {
	return e.clipboard.Copy(e.Objects(), e.selection.IDs())
}

// Cut copies the selection, then removes each object with its own delete
// action so undo restores them individually. Clears the selection.
func (e *Editor) Cut() int {
	n := e.Copy()
	if n == 0 {
		return 0
	}

	ids := e.selection.IDs()
	e.selection.Clear()
	for _, id := range ids {
		objs := e.Objects()
		i := indexByID(objs, id)
		if i < 0 {
			continue
		}
		e.commit(&DeleteAction{Object: objs[i].Clone(), Index: i})
	}
	return n
}

// Paste materializes the clipboard snapshot onto the current page. Each
// pasted object is logged as its own add action, and the selection becomes
// exactly the pasted objects. Empty clipboard is a no-op.
func (e *Editor) Paste(anchor *scene.Point) []scene.Object {
	pasted := e.clipboard.Paste(e.doc.AllocateID, anchor)
	if len(pasted) == 0 {
		return nil
	}

	e.selection.Clear()
	for _, o := range pasted {
		e.commit(&AddAction{Object: o})
		e.selection.Add(o.Common().ID)
	}
	e.selection.Recompute(e.Objects())

	live := make([]scene.Object, len(pasted))
	for i, o := range pasted {
		live[i] = byID(e.Objects(), o.Common().ID)
	}
	return live
}

// --- undo/redo ---

// Undo reverts the newest committed action on the current page.
func (e *Editor) Undo() bool {
	a := e.History().Undo(e.objects())
	if a == nil {
		return false
	}
	e.selection.Recompute(e.Objects())
	return true
}

// Redo reapplies the newest undone action on the current page. A redone
// add selects the restored object again, matching the state right after
// the original paste or insert.
func (e *Editor) Redo() bool {
	a := e.History().Redo(e.objects())
	if a == nil {
		return false
	}
	if add, ok := a.(*AddAction); ok {
		e.selection.Add(add.Object.Common().ID)
	}
	e.selection.Recompute(e.Objects())
	return true
}

// --- pages ---

// AddPage appends a new page and switches to it.
func (e *Editor) AddPage() int {
	i := e.doc.AddPage()
	e.SetPage(i)
	return i
}

// SetPage switches the active page, dropping session gesture state and the
// selection. Out-of-range indexes are ignored.
func (e *Editor) SetPage(index int) {
	if index < 0 || index >= len(e.doc.Pages) {
		slog.Debug("page index out of range", "index", index)
		return
	}
	e.CancelGesture()
	e.selection.Clear()
	e.doc.CurrentPageIndex = index
}

// RemovePage deletes a page along with its session history. The last page
// always survives.
func (e *Editor) RemovePage(index int) bool {
	if index < 0 || index >= len(e.doc.Pages) {
		return false
	}
	id := e.doc.Pages[index].ID
	if !e.doc.RemovePage(index) {
		return false
	}
	delete(e.histories, id)
	e.CancelGesture()
	e.selection.Clear()
	return true
}

// FitToContent frames the current page's content in the viewport.
func (e *Editor) FitToContent(viewW, viewH float64) {
	e.viewport.FitToContent(e.Objects(), viewW, viewH)
}

// --- gesture geometry helpers ---

// sameObject reports whether two objects serialize to identical state.
// Enclosing boxes are not enough here; a square rotated a quarter turn
// keeps its box but is still a real change.
func sameObject(a, b scene.Object) bool {
	aj, err := scene.MarshalObject(a)
	if err != nil {
		return false
	}
	bj, err := scene.MarshalObject(b)
	if err != nil {
		return false
	}
	return bytes.Equal(aj, bj)
}

// restoreFrom copies the snapshot's state back into the live object.
func restoreFrom(live, snapshot scene.Object) {
	if live == nil || snapshot == nil {
		return
	}
	switch v := live.(type) {
	case *scene.Stroke:
		s := snapshot.(*scene.Stroke)
		v.Points = v.Points[:0]
		v.Points = append(v.Points, s.Points...)
		v.Width = s.Width
	case *scene.Image:
		s := snapshot.(*scene.Image)
		v.X, v.Y, v.W, v.H = s.X, s.Y, s.W, s.H
		v.Rotation, v.FlipH, v.FlipV = s.Rotation, s.FlipH, s.FlipV
	case *scene.Text:
		s := snapshot.(*scene.Text)
		v.X, v.Y = s.X, s.Y
	case *scene.Shape:
		s := snapshot.(*scene.Shape)
		v.X, v.Y, v.W, v.H = s.X, s.Y, s.W, s.H
		v.Rotation, v.FlipH, v.FlipV = s.Rotation, s.FlipH, s.FlipV
		if s.Start != nil {
			p := *s.Start
			v.Start = &p
		}
		if s.End != nil {
			p := *s.End
			v.End = &p
		}
	}
}

// rotateObjectAbout rotates an object by delta radians about a pivot.
// Images and shapes add to their own rotation and orbit the pivot; stroke
// points and text origins are rotated directly.
func rotateObjectAbout(o scene.Object, pivot scene.Point, delta float64) {
	m := AboutCenter(pivot.X, pivot.Y, delta, false, false)
	switch v := o.(type) {
	case *scene.Stroke:
		for i, p := range v.Points {
			x, y := m.TransformPoint(p.X, p.Y)
			v.Points[i] = scene.Point{X: x, Y: y}
		}
	case *scene.Image:
		orbitRect(&v.X, &v.Y, v.W, v.H, m)
		v.Rotation = normalizeAngle(v.Rotation + delta)
	case *scene.Text:
		x, y := m.TransformPoint(v.X, v.Y)
		v.X, v.Y = x, y
	case *scene.Shape:
		orbitRect(&v.X, &v.Y, v.W, v.H, m)
		v.Rotation = normalizeAngle(v.Rotation + delta)
	}
}

// orbitRect moves a rect so its center follows the pivot rotation.
func orbitRect(x, y *float64, w, h float64, m Matrix2D) {
	cx, cy := m.TransformPoint(*x+w/2, *y+h/2)
	*x = cx - w/2
	*y = cy - h/2
}

// scaleObjectFrom scales an object relative to the top-left corner of the
// gesture's aggregate box.
func scaleObjectFrom(o scene.Object, box scene.Rect, sx, sy float64) {
	switch v := o.(type) {
	case *scene.Stroke:
		for i, p := range v.Points {
			v.Points[i] = scene.Point{
				X: box.X + (p.X-box.X)*sx,
				Y: box.Y + (p.Y-box.Y)*sy,
			}
		}
		v.Width *= (sx + sy) / 2
	case *scene.Image:
		v.X = box.X + (v.X-box.X)*sx
		v.Y = box.Y + (v.Y-box.Y)*sy
		v.W *= sx
		v.H *= sy
	case *scene.Text:
		v.X = box.X + (v.X-box.X)*sx
		v.Y = box.Y + (v.Y-box.Y)*sy
	case *scene.Shape:
		v.X = box.X + (v.X-box.X)*sx
		v.Y = box.Y + (v.Y-box.Y)*sy
		v.W *= sx
		v.H *= sy
		if v.Start != nil {
			v.Start.X = box.X + (v.Start.X-box.X)*sx
			v.Start.Y = box.Y + (v.Start.Y-box.Y)*sy
		}
		if v.End != nil {
			v.End.X = box.X + (v.End.X-box.X)*sx
			v.End.Y = box.Y + (v.End.Y-box.Y)*sy
		}
	}
}

// mirrorObject reflects an object across the vertical or horizontal axis
// through a center point.
func mirrorObject(o scene.Object, c scene.Point, horizontal bool) {
	reflect := func(p scene.Point) scene.Point {
		if horizontal {
			return scene.Point{X: 2*c.X - p.X, Y: p.Y}
		}
		return scene.Point{X: p.X, Y: 2*c.Y - p.Y}
	}

	switch v := o.(type) {
	case *scene.Stroke:
		for i, p := range v.Points {
			v.Points[i] = reflect(p)
		}
	case *scene.Image:
		p := reflect(scene.Point{X: v.X + v.W/2, Y: v.Y + v.H/2})
		v.X, v.Y = p.X-v.W/2, p.Y-v.H/2
		if horizontal {
			v.FlipH = !v.FlipH
		} else {
			v.FlipV = !v.FlipV
		}
	case *scene.Text:
		p := reflect(scene.Point{X: v.X, Y: v.Y})
		v.X, v.Y = p.X, p.Y
	case *scene.Shape:
		p := reflect(scene.Point{X: v.X + v.W/2, Y: v.Y + v.H/2})
		v.X, v.Y = p.X-v.W/2, p.Y-v.H/2
		if horizontal {
			v.FlipH = !v.FlipH
		} else {
			v.FlipV = !v.FlipV
		}
		if v.Start != nil {
			*v.Start = reflect(*v.Start)
		}
		if v.End != nil {
			*v.End = reflect(*v.End)
		}
	}
}

func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
