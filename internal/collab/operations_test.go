package collab

import (
	"testing"

	"github.com/basu-10/MioHub-sub000/internal/document"
	"github.com/basu-10/MioHub-sub000/internal/engine"
	"github.com/basu-10/MioHub-sub000/internal/scene"
)

func actionEnvelope(t *testing.T, a engine.Action) []byte {
	t.Helper()
	data, err := engine.MarshalAction(a)
	if err != nil {
		t.Fatalf("marshal action: %v", err)
	}
	return data
}

func TestApplyPageActionMutatesDocument(t *testing.T) {
	bs := NewBoardState(document.New(), "demo")

	add := &engine.AddAction{Object: &scene.Shape{
		Meta: scene.Common{ID: 5},
		X:    1, Y: 2, W: 3, H: 4,
		Form: scene.FormRectangle, Color: "#000", Width: 1,
	}}
	seq, err := bs.ApplyOperation(Operation{
		ID:     "op_1",
		Type:   "page.apply",
		Action: actionEnvelope(t, add),
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if seq != 1 {
		t.Errorf("seq %d, want 1", seq)
	}

	doc := bs.doc
	if len(doc.Pages[0].Objects) != 1 || doc.Pages[0].Objects[0].Common().ID != 5 {
		t.Fatal("operation did not reach the page")
	}
	// Remote id 5 must push the local allocator past it.
	if doc.NextObjectID != 6 {
		t.Errorf("next id %d, want 6", doc.NextObjectID)
	}
}

func TestApplyOperationSequencesAndLogs(t *testing.T) {
	bs := NewBoardState(document.New(), "demo")

	for i := 1; i <= 3; i++ {
		add := &engine.AddAction{Object: &scene.Shape{
			Meta: scene.Common{ID: i}, W: 1, H: 1, Form: scene.FormEllipse,
		}}
		seq, err := bs.ApplyOperation(Operation{Type: "page.apply", Action: actionEnvelope(t, add)})
		if err != nil {
			t.Fatalf("op %d: %v", i, err)
		}
		if seq != int64(i) {
			t.Errorf("op %d got seq %d", i, seq)
		}
	}
	if got := len(bs.OpLog()); got != 3 {
		t.Errorf("op log has %d entries, want 3", got)
	}
	if bs.ServerSeq() != 3 {
		t.Errorf("server seq %d, want 3", bs.ServerSeq())
	}
}

func TestApplyRejectsBadOperations(t *testing.T) {
	bs := NewBoardState(document.New(), "demo")

	cases := []Operation{
		{Type: "page.apply", PageIndex: 7, Action: []byte(`{"type":"move","payload":{}}`)},
		{Type: "page.apply", Action: []byte(`{"type":"nonsense","payload":{}}`)},
		{Type: "warp.core.breach"},
		{Type: "page.remove", PageID: "page_missing"},
	}
	for i, op := range cases {
		if _, err := bs.ApplyOperation(op); err == nil {
			t.Errorf("case %d accepted", i)
		}
	}
	if bs.ServerSeq() != 0 {
		t.Errorf("rejected operations advanced the sequence to %d", bs.ServerSeq())
	}
}

func TestPageAddRemoveRename(t *testing.T) {
	bs := NewBoardState(document.New(), "before")

	if _, err := bs.ApplyOperation(Operation{Type: "page.add", PageID: "page_x"}); err != nil {
		t.Fatalf("page.add: %v", err)
	}
	if _, err := bs.ApplyOperation(Operation{Type: "page.add", PageID: "page_x"}); err == nil {
		t.Error("duplicate page id accepted")
	}
	if len(bs.doc.Pages) != 2 {
		t.Fatalf("%d pages, want 2", len(bs.doc.Pages))
	}

	if _, err := bs.ApplyOperation(Operation{Type: "page.remove", PageID: "page_x"}); err != nil {
		t.Fatalf("page.remove: %v", err)
	}
	// The survivor is protected.
	if _, err := bs.ApplyOperation(Operation{Type: "page.remove", PageID: bs.doc.Pages[0].ID}); err == nil {
		t.Error("removed the last page")
	}

	if _, err := bs.ApplyOperation(Operation{Type: "board.rename", Name: "after"}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if bs.Name() != "after" {
		t.Errorf("name %q, want %q", bs.Name(), "after")
	}
}

func TestSnapshotRoundTrips(t *testing.T) {
	doc := document.New()
	doc.Pages[0].Objects = []scene.Object{
		&scene.Text{Meta: scene.Common{ID: 1}, Content: "hello", FontSize: 14, Color: "#000"},
	}
	doc.NextObjectID = 2
	bs := NewBoardState(doc, "demo")

	data, seq, err := bs.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if seq != 0 {
		t.Errorf("fresh state seq %d, want 0", seq)
	}

	restored, err := document.Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if len(restored.Pages[0].Objects) != 1 {
		t.Error("snapshot lost the page contents")
	}
}
