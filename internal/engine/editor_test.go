package engine

import (
	"math"
	"testing"

	"github.com/basu-10/MioHub-sub000/internal/document"
	"github.com/basu-10/MioHub-sub000/internal/scene"
)

func newTestEditor() *Editor {
	return NewEditor(document.New(), DefaultHistoryLimit)
}

func TestCopyPasteUndoRedoScenario(t *testing.T) {
	e := newTestEditor()

	s := e.CommitStroke([]scene.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}, scene.ToolPen, "#000000", 4, 1)
	if s == nil || s.Meta.ID != 1 || s.Meta.Layer != 0 {
		t.Fatalf("first stroke got %+v, want id=1 layer=0", s)
	}

	if got := e.SelectAt(scene.Point{X: 10, Y: 0}, false); got == nil || got.Common().ID != 1 {
		t.Fatalf("SelectAt did not pick stroke 1, got %v", got)
	}

	if n := e.Copy(); n != 1 {
		t.Fatalf("copied %d objects, want 1", n)
	}

	pasted := e.Paste(nil)
	if len(pasted) != 1 {
		t.Fatalf("pasted %d objects, want 1", len(pasted))
	}
	p := pasted[0].(*scene.Stroke)
	if p.Meta.ID != 2 {
		t.Errorf("pasted id = %d, want 2", p.Meta.ID)
	}
	if p.Points[0].X != PasteNudge || p.Points[0].Y != PasteNudge {
		t.Errorf("pasted first point = %v, want (%v, %v)", p.Points[0], PasteNudge, PasteNudge)
	}
	if !e.Selection().Has(2) || e.Selection().Has(1) {
		t.Error("paste should select only the pasted object")
	}

	if !e.Undo() {
		t.Fatal("undo failed")
	}
	if len(e.Objects()) != 1 || e.Objects()[0].Common().ID != 1 {
		t.Fatalf("after undo: %d objects, want only id 1", len(e.Objects()))
	}

	if !e.Redo() {
		t.Fatal("redo failed")
	}
	if len(e.Objects()) != 2 {
		t.Fatalf("after redo: %d objects, want 2", len(e.Objects()))
	}
	restored := e.Objects()[1].(*scene.Stroke)
	if restored.Meta.ID != 2 || restored.Points[0].X != PasteNudge {
		t.Errorf("redo restored %+v, want id 2 at nudge offset", restored)
	}
}

func TestPasteCascadeOffsets(t *testing.T) {
	e := newTestEditor()
	e.AddShape(0, 0, 10, 10, scene.FormRectangle, "#000", 2)
	e.SelectAt(scene.Point{X: 5, Y: 5}, false)
	e.Copy()

	// Consecutive pastes step by one nudge each, wrapping after ten.
	for i := 1; i <= 12; i++ {
		got := e.Paste(nil)[0].(*scene.Shape)
		step := (i-1)%pasteCascade + 1
		want := PasteNudge * float64(step)
		if got.X != want || got.Y != want {
			t.Fatalf("paste %d at (%v, %v), want (%v, %v)", i, got.X, got.Y, want, want)
		}
	}
}

func TestPasteWithAnchorCentersOnPoint(t *testing.T) {
	e := newTestEditor()
	e.AddShape(0, 0, 10, 20, scene.FormRectangle, "#000", 2)
	e.SelectAt(scene.Point{X: 5, Y: 5}, false)
	e.Copy()

	anchor := scene.Point{X: 100, Y: 200}
	got := e.Paste(&anchor)[0].(*scene.Shape)
	if got.X != 95 || got.Y != 190 {
		t.Errorf("anchored paste at (%v, %v), want (95, 190)", got.X, got.Y)
	}
}

func TestCutDeletesAndFillsClipboard(t *testing.T) {
	e := newTestEditor()
	e.AddShape(0, 0, 10, 10, scene.FormRectangle, "#000", 2)
	e.AddShape(50, 50, 10, 10, scene.FormEllipse, "#000", 2)
	e.SelectAt(scene.Point{X: 5, Y: 5}, false)
	e.SelectAt(scene.Point{X: 55, Y: 55}, true)

	if n := e.Cut(); n != 2 {
		t.Fatalf("cut %d objects, want 2", n)
	}
	if len(e.Objects()) != 0 {
		t.Fatalf("%d objects remain after cut", len(e.Objects()))
	}
	if e.Clipboard().IsEmpty() {
		t.Fatal("clipboard empty after cut")
	}
	if e.Selection().Len() != 0 {
		t.Error("selection should clear after cut")
	}

	// Cut recorded one delete per object, both undoable.
	e.Undo()
	e.Undo()
	if len(e.Objects()) != 2 {
		t.Errorf("%d objects after undoing cut, want 2", len(e.Objects()))
	}
}

func TestMoveGestureCommitsSingleAction(t *testing.T) {
	e := newTestEditor()
	e.AddShape(0, 0, 10, 10, scene.FormRectangle, "#000", 2)
	e.SelectAt(scene.Point{X: 5, Y: 5}, false)

	e.BeginMove()
	e.UpdateMove(5, 5)
	e.UpdateMove(12, 3)
	e.UpdateMove(20, 20)
	e.EndGesture()

	sh := e.Objects()[0].(*scene.Shape)
	if sh.X != 20 || sh.Y != 20 {
		t.Fatalf("shape at (%v, %v), want (20, 20)", sh.X, sh.Y)
	}

	undo, _ := e.History().Depth()
	// AddShape plus the whole drag as one step.
	if undo != 2 {
		t.Fatalf("undo depth %d, want 2", undo)
	}

	e.Undo()
	sh = e.Objects()[0].(*scene.Shape)
	if sh.X != 0 || sh.Y != 0 {
		t.Errorf("undo left shape at (%v, %v), want origin", sh.X, sh.Y)
	}
}

func TestCancelGestureRestoresState(t *testing.T) {
	e := newTestEditor()
	e.AddShape(10, 10, 20, 20, scene.FormRectangle, "#000", 2)
	e.SelectAt(scene.Point{X: 15, Y: 15}, false)

	e.BeginTransform()
	e.UpdateRotate(1.3)
	e.UpdateResize(2, 3, false)
	e.CancelGesture()

	sh := e.Objects()[0].(*scene.Shape)
	if sh.X != 10 || sh.Y != 10 || sh.W != 20 || sh.H != 20 || sh.Rotation != 0 {
		t.Errorf("cancel left %+v, want original geometry", sh)
	}
	if e.Dragging() {
		t.Error("drag still live after cancel")
	}
	if undo, _ := e.History().Depth(); undo != 1 {
		t.Errorf("undo depth %d after cancel, want 1 (only the add)", undo)
	}
}

func TestEndGestureWithoutChangeRecordsNothing(t *testing.T) {
	e := newTestEditor()
	e.AddShape(0, 0, 10, 10, scene.FormRectangle, "#000", 2)
	e.SelectAt(scene.Point{X: 5, Y: 5}, false)

	e.BeginMove()
	e.EndGesture()

	if undo, _ := e.History().Depth(); undo != 1 {
		t.Errorf("undo depth %d, want 1", undo)
	}
}

func TestRotateGestureWithUnchangedBoundsStillRecords(t *testing.T) {
	e := newTestEditor()
	e.AddShape(0, 0, 10, 10, scene.FormRectangle, "#000", 2)
	e.SelectAt(scene.Point{X: 5, Y: 5}, false)

	// A square's enclosing box survives a quarter turn unchanged; the
	// rotation itself must still commit as an undoable action.
	e.BeginTransform()
	e.UpdateRotate(math.Pi / 2)
	e.EndGesture()

	sh := e.Objects()[0].(*scene.Shape)
	if math.Abs(sh.Rotation-math.Pi/2) > 1e-9 {
		t.Fatalf("rotation %v, want pi/2", sh.Rotation)
	}
	if undo, _ := e.History().Depth(); undo != 2 {
		t.Fatalf("undo depth %d, want 2 (add plus rotate)", undo)
	}

	e.Undo()
	sh = e.Objects()[0].(*scene.Shape)
	if sh.Rotation != 0 {
		t.Errorf("undo left rotation %v, want 0", sh.Rotation)
	}
}

func TestRedoPasteRestoresSelection(t *testing.T) {
	e := newTestEditor()
	e.CommitStroke([]scene.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}, scene.ToolPen, "#000000", 4, 1)
	e.SelectAt(scene.Point{X: 10, Y: 0}, false)
	e.Copy()
	e.Paste(nil)

	e.Undo()
	if e.Selection().Has(2) {
		t.Fatal("undone paste left object 2 selected")
	}

	e.Redo()
	if len(e.Objects()) != 2 {
		t.Fatalf("after redo: %d objects, want 2", len(e.Objects()))
	}
	if !e.Selection().Has(2) {
		t.Error("redone paste did not reselect object 2")
	}
	if got := e.Selection().Primary(); got != 2 {
		t.Errorf("primary after redo = %d, want 2", got)
	}
}

func TestResizeStrokeLockAspectAveragesScale(t *testing.T) {
	e := newTestEditor()
	s := e.CommitStroke([]scene.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}, scene.ToolPen, "#000", 2, 1)

	from := Bounds(s)
	to := scene.Rect{X: from.X, Y: from.Y, W: from.W * 2, H: from.H * 4}
	e.ResizeObject(s.Meta.ID, to, true)

	got := e.Objects()[0].(*scene.Stroke)
	// Locked aspect applies the average of the two axis factors.
	dx := got.Points[1].X - got.Points[0].X
	dy := got.Points[1].Y - got.Points[0].Y
	if math.Abs(dx-30) > 1e-9 || math.Abs(dy-30) > 1e-9 {
		t.Errorf("segment delta (%v, %v), want (30, 30)", dx, dy)
	}
}

func TestPerPageHistoryIsolation(t *testing.T) {
	e := newTestEditor()
	e.AddShape(0, 0, 10, 10, scene.FormRectangle, "#000", 2)

	idx := e.AddPage()
	e.SetPage(idx)
	if len(e.Objects()) != 0 {
		t.Fatal("new page should be empty")
	}
	if e.History().CanUndo() {
		t.Fatal("new page inherited the first page's history")
	}

	e.AddShape(5, 5, 5, 5, scene.FormEllipse, "#000", 2)
	e.SetPage(0)
	if !e.History().CanUndo() {
		t.Error("first page lost its history")
	}
	if len(e.Objects()) != 1 || e.Objects()[0].(*scene.Shape).Form != scene.FormRectangle {
		t.Error("first page contents changed")
	}
}

func TestRemovePageKeepsAtLeastOne(t *testing.T) {
	e := newTestEditor()
	if e.RemovePage(0) {
		t.Error("removing the last page must fail")
	}
	e.AddPage()
	if !e.RemovePage(1) {
		t.Error("removing a non-last page must succeed")
	}
	if len(e.Document().Pages) != 1 {
		t.Errorf("%d pages remain, want 1", len(e.Document().Pages))
	}
}

func TestDeleteSelectionUndoRestoresOrder(t *testing.T) {
	e := newTestEditor()
	e.AddShape(0, 0, 10, 10, scene.FormRectangle, "#a", 1)
	e.AddShape(20, 0, 10, 10, scene.FormEllipse, "#b", 1)
	e.AddShape(40, 0, 10, 10, scene.FormDiamond, "#c", 1)

	e.SelectAt(scene.Point{X: 5, Y: 5}, false)
	e.SelectAt(scene.Point{X: 45, Y: 5}, true)
	if n := e.DeleteSelection(); n != 2 {
		t.Fatalf("deleted %d, want 2", n)
	}
	if len(e.Objects()) != 1 || e.Objects()[0].Common().ID != 2 {
		t.Fatal("wrong survivor")
	}

	e.Undo()
	ids := make([]int, 0, 3)
	for _, o := range e.Objects() {
		ids = append(ids, o.Common().ID)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("undo restored order %v, want [1 2 3]", ids)
	}
}

func TestEscapeDiscardsPendingStroke(t *testing.T) {
	e := newTestEditor()
	e.BeginStroke(scene.Point{X: 0, Y: 0}, scene.ToolPen, "#000", 2, 1)
	e.AppendStrokePoint(scene.Point{X: 5, Y: 5})
	e.CancelGesture()

	if e.Pending() != nil {
		t.Error("pending stroke survived cancel")
	}
	if len(e.Objects()) != 0 {
		t.Error("cancelled stroke was committed")
	}
}

func TestSingleClickStrokeDiscarded(t *testing.T) {
	e := newTestEditor()
	e.BeginStroke(scene.Point{X: 3, Y: 3}, scene.ToolPen, "#000", 2, 1)
	if got := e.EndStroke(); got != nil {
		t.Errorf("one-point stroke committed: %+v", got)
	}
	if e.Document().NextObjectID != 1 {
		t.Errorf("id %d consumed by a discarded stroke", e.Document().NextObjectID)
	}
}

func TestLegacyRoundTrip(t *testing.T) {
	e := newTestEditor()
	e.AddShape(0, 0, 10, 10, scene.FormRectangle, "#abc", 2)
	e.CommitStroke([]scene.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, scene.ToolHighlighter, "#ff0", 8, 0.5)
	e.SelectAt(scene.Point{X: 5, Y: 5}, false)
	e.MoveSelection(3, 3)
	e.Undo()

	data, err := e.ExportLegacy()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	restored, err := ImportLegacy(data, DefaultHistoryLimit)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if fingerprint(t, restored.Objects()) != fingerprint(t, e.Objects()) {
		t.Error("objects diverged across export/import")
	}
	if !restored.History().CanRedo() {
		t.Error("redo stack lost across export/import")
	}
	if !restored.Redo() {
		t.Fatal("restored redo failed")
	}
	sh := restored.Objects()[0].(*scene.Shape)
	if sh.X != 3 || sh.Y != 3 {
		t.Errorf("redone move put shape at (%v, %v), want (3, 3)", sh.X, sh.Y)
	}
}

func TestCompileDrawCommandsOrder(t *testing.T) {
	e := newTestEditor()
	a := e.AddShape(0, 0, 10, 10, scene.FormRectangle, "#000", 2)
	e.SetLayer(a.Meta.ID, 5)
	e.AddShape(2, 2, 10, 10, scene.FormEllipse, "#000", 2)
	e.SelectAt(scene.Point{X: 3, Y: 3}, false)

	cmds := CompileDrawCommands(e)
	if len(cmds) == 0 || cmds[0].Op != "grid" {
		t.Fatal("first command must be the grid")
	}

	var ids []int
	for _, c := range cmds {
		if c.Op == "shape" {
			ids = append(ids, c.ObjectID)
		}
	}
	// Layer 0 ellipse paints before the layer 5 rectangle.
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 1 {
		t.Errorf("shape paint order %v, want [2 1]", ids)
	}

	last := cmds[len(cmds)-1]
	if last.Op != "handle" {
		t.Errorf("final command %q, want selection handle chrome", last.Op)
	}
}

func TestCompileOmitsIdentityTransform(t *testing.T) {
	e := newTestEditor()
	plain := e.AddShape(0, 0, 10, 10, scene.FormRectangle, "#000", 2)
	turned := e.AddShape(20, 20, 10, 10, scene.FormRectangle, "#000", 2)
	e.RotateObject(turned.Meta.ID, math.Pi/4)

	for _, c := range CompileDrawCommands(e) {
		if c.Op != "shape" {
			continue
		}
		switch c.ObjectID {
		case plain.Meta.ID:
			if c.Transform != nil {
				t.Errorf("unrotated shape carries transform %v", c.Transform)
			}
		case turned.Meta.ID:
			if len(c.Transform) != 6 {
				t.Errorf("rotated shape transform %v, want 6 elements", c.Transform)
			}
		}
	}
}
