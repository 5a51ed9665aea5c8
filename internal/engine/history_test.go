package engine

import (
	"fmt"
	"testing"

	"github.com/basu-10/MioHub-sub000/internal/scene"
)

func TestUndoRedoInverseLaw(t *testing.T) {
	// For every action type: apply, undo, redo must restore the exact
	// post-action state.
	mkObjs := func() []scene.Object {
		return []scene.Object{
			&scene.Stroke{Meta: scene.Common{ID: 1, Layer: 0}, Points: []scene.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}, Color: "#000000", Width: 4, Opacity: 1, Tool: scene.ToolPen},
			&scene.Shape{Meta: scene.Common{ID: 2, Layer: 1}, X: 20, Y: 20, W: 30, H: 30, Form: scene.FormRectangle, Color: "#ff0000", Width: 2},
			&scene.Text{Meta: scene.Common{ID: 3, Layer: 2}, X: 5, Y: 5, Content: "hi", FontSize: 16, Color: "#0000ff"},
		}
	}

	resizedShape := &scene.Shape{Meta: scene.Common{ID: 2, Layer: 1}, X: 20, Y: 20, W: 60, H: 15, Form: scene.FormRectangle, Color: "#ff0000", Width: 2}
	editedText := &scene.Text{Meta: scene.Common{ID: 3, Layer: 2}, X: 5, Y: 5, Content: "edited", FontSize: 20, Color: "#0000ff"}

	cases := []Action{
		&AddAction{Object: &scene.Shape{Meta: scene.Common{ID: 9, Layer: 0}, X: 1, Y: 1, W: 2, H: 2, Form: scene.FormEllipse}},
		&DeleteAction{Object: mkObjs()[1], Index: 1},
		&MoveAction{IDs: []int{1, 2}, DX: 7, DY: -3},
		&ResizeAction{ID: 2, Before: mkObjs()[1], After: resizedShape},
		&RotateAction{ID: 2, Before: 0, After: 1.2},
		&FlipAction{ID: 2, Horizontal: true},
		&ColorAction{ID: 1, Before: "#000000", After: "#00ff00"},
		&WidthAction{ID: 1, Before: 4, After: 9},
		&TextEditAction{ID: 3, Before: mkObjs()[2].(*scene.Text), After: editedText},
		&LayerAction{ID: 1, Before: 0, After: 5},
		&TransformAction{IDs: []int{2}, Before: []scene.Object{mkObjs()[1]}, After: []scene.Object{resizedShape}},
		&BatchDeleteAction{Items: []DeletedObject{
			{Object: mkObjs()[0], Index: 0},
			{Object: mkObjs()[2], Index: 2},
		}},
	}

	for _, a := range cases {
		t.Run(a.name(), func(t *testing.T) {
			objs := mkObjs()
			a.Apply(&objs)
			want := fingerprint(t, objs)

			a.Invert(&objs)
			a.Apply(&objs)

			if got := fingerprint(t, objs); got != want {
				t.Errorf("invert+apply diverged:\n got %s\nwant %s", got, want)
			}
		})
	}
}

func fingerprint(t *testing.T, objs []scene.Object) string {
	t.Helper()
	data, err := scene.MarshalObjects(objs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}

func TestHistoryCapEvictsOldest(t *testing.T) {
	var objs []scene.Object
	h := NewHistory(100)

	// 150 adds against a 100-deep history.
	for i := 1; i <= 150; i++ {
		a := &AddAction{Object: &scene.Shape{Meta: scene.Common{ID: i}, X: float64(i), Y: 0, W: 1, H: 1, Form: scene.FormRectangle}}
		a.Apply(&objs)
		h.Record(a)
	}

	undone := 0
	for h.CanUndo() {
		h.Undo(&objs)
		undone++
	}
	if undone != 100 {
		t.Fatalf("undid %d actions, want 100", undone)
	}

	// Only the first 50 adds survive: the state after the 50th action.
	if len(objs) != 50 {
		t.Fatalf("%d objects remain, want 50", len(objs))
	}
	for i, o := range objs {
		if o.Common().ID != i+1 {
			t.Fatalf("object %d has id %d", i, o.Common().ID)
		}
	}
}

func TestRecordClearsRedo(t *testing.T) {
	var objs []scene.Object
	h := NewHistory(10)

	for i := 1; i <= 3; i++ {
		a := &AddAction{Object: &scene.Shape{Meta: scene.Common{ID: i}, W: 1, H: 1, Form: scene.FormRectangle}}
		a.Apply(&objs)
		h.Record(a)
	}
	h.Undo(&objs)
	h.Undo(&objs)
	if !h.CanRedo() {
		t.Fatal("expected redo available")
	}

	a := &AddAction{Object: &scene.Shape{Meta: scene.Common{ID: 4}, W: 1, H: 1, Form: scene.FormRectangle}}
	a.Apply(&objs)
	h.Record(a)

	if h.CanRedo() {
		t.Error("redo path survived a new mutation")
	}
}

func TestUndoRedoEmptyStacksNoOp(t *testing.T) {
	var objs []scene.Object
	h := NewHistory(10)
	if h.Undo(&objs) != nil || h.Redo(&objs) != nil {
		t.Error("empty stacks should no-op")
	}
}

func TestActionEnvelopeRoundTrip(t *testing.T) {
	actions := []Action{
		&MoveAction{IDs: []int{1, 2}, DX: 3, DY: 4},
		&ColorAction{ID: 7, Before: "#000", After: "#fff"},
		&AddAction{Object: &scene.Stroke{Meta: scene.Common{ID: 1}, Points: []scene.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, Tool: scene.ToolPen, Width: 2, Opacity: 1}},
		&BatchDeleteAction{Items: []DeletedObject{{Object: &scene.Text{Meta: scene.Common{ID: 2}, Content: "x", FontSize: 12}, Index: 0}}},
	}

	for i, a := range actions {
		data, err := MarshalAction(a)
		if err != nil {
			t.Fatalf("action %d marshal: %v", i, err)
		}
		decoded, err := UnmarshalAction(data)
		if err != nil {
			t.Fatalf("action %d unmarshal: %v", i, err)
		}
		if decoded.name() != a.name() {
			t.Errorf("action %d: name %q, want %q", i, decoded.name(), a.name())
		}
		if fmt.Sprintf("%T", decoded) != fmt.Sprintf("%T", a) {
			t.Errorf("action %d: type %T, want %T", i, decoded, a)
		}
	}
}
