package engine

import (
	"encoding/json"
	"fmt"

	"github.com/basu-10/MioHub-sub000/internal/document"
	"github.com/basu-10/MioHub-sub000/internal/scene"
)

// The legacy export mode serializes the session's undo/redo stacks next to
// each page, for boards that restore history across reloads. The normal
// persisted form (document.Marshal) excludes them.

type actionEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type objectIndexJSON struct {
	Object json.RawMessage `json:"object"`
	Index  int             `json:"index"`
}

type movePayload struct {
	IDs []int   `json:"ids"`
	DX  float64 `json:"dx"`
	DY  float64 `json:"dy"`
}

type beforeAfterPayload struct {
	ID     int             `json:"id"`
	Before json.RawMessage `json:"before"`
	After  json.RawMessage `json:"after"`
}

type scalarChangePayload[T any] struct {
	ID     int `json:"id"`
	Before T   `json:"before"`
	After  T   `json:"after"`
}

type flipPayload struct {
	ID         int  `json:"id"`
	Horizontal bool `json:"horizontal"`
}

type transformPayload struct {
	IDs    []int             `json:"ids"`
	Before []json.RawMessage `json:"before"`
	After  []json.RawMessage `json:"after"`
}

type batchDeletePayload struct {
	Items []objectIndexJSON `json:"items"`
}

// MarshalAction serializes an action with its discriminant.
func MarshalAction(a Action) ([]byte, error) {
	payload, err := actionPayload(a)
	if err != nil {
		return nil, err
	}
	return json.Marshal(actionEnvelope{Type: a.name(), Payload: payload})
}

func actionPayload(a Action) (json.RawMessage, error) {
	switch v := a.(type) {
	case *AddAction:
		obj, err := scene.MarshalObject(v.Object)
		if err != nil {
			return nil, err
		}
		return json.Marshal(objectIndexJSON{Object: obj})
	case *DeleteAction:
		obj, err := scene.MarshalObject(v.Object)
		if err != nil {
			return nil, err
		}
		return json.Marshal(objectIndexJSON{Object: obj, Index: v.Index})
	case *MoveAction:
		return json.Marshal(movePayload{IDs: v.IDs, DX: v.DX, DY: v.DY})
	case *ResizeAction:
		return marshalBeforeAfter(v.ID, v.Before, v.After)
	case *RotateAction:
		return json.Marshal(scalarChangePayload[float64]{ID: v.ID, Before: v.Before, After: v.After})
	case *FlipAction:
		return json.Marshal(flipPayload{ID: v.ID, Horizontal: v.Horizontal})
	case *ColorAction:
		return json.Marshal(scalarChangePayload[string]{ID: v.ID, Before: v.Before, After: v.After})
	case *WidthAction:
		return json.Marshal(scalarChangePayload[float64]{ID: v.ID, Before: v.Before, After: v.After})
	case *TextEditAction:
		return marshalBeforeAfter(v.ID, v.Before, v.After)
	case *LayerAction:
		return json.Marshal(scalarChangePayload[int]{ID: v.ID, Before: v.Before, After: v.After})
	case *TransformAction:
		p := transformPayload{IDs: v.IDs}
		for i := range v.IDs {
			before, err := scene.MarshalObject(v.Before[i])
			if err != nil {
				return nil, err
			}
			after, err := scene.MarshalObject(v.After[i])
			if err != nil {
				return nil, err
			}
			p.Before = append(p.Before, before)
			p.After = append(p.After, after)
		}
		return json.Marshal(p)
	case *BatchDeleteAction:
		p := batchDeletePayload{}
		for _, item := range v.Items {
			obj, err := scene.MarshalObject(item.Object)
			if err != nil {
				return nil, err
			}
			p.Items = append(p.Items, objectIndexJSON{Object: obj, Index: item.Index})
		}
		return json.Marshal(p)
	default:
		return nil, fmt.Errorf("unknown action %T", a)
	}
}

func marshalBeforeAfter(id int, before, after scene.Object) (json.RawMessage, error) {
	b, err := scene.MarshalObject(before)
	if err != nil {
		return nil, err
	}
	a, err := scene.MarshalObject(after)
	if err != nil {
		return nil, err
	}
	return json.Marshal(beforeAfterPayload{ID: id, Before: b, After: a})
}

// UnmarshalAction decodes an action from its envelope form.
func UnmarshalAction(data []byte) (Action, error) {
	var env actionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode action envelope: %w", err)
	}

	switch env.Type {
	case "add":
		var p objectIndexJSON
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, err
		}
		obj, err := scene.UnmarshalObject(p.Object)
		if err != nil {
			return nil, err
		}
		return &AddAction{Object: obj}, nil
	case "delete":
		var p objectIndexJSON
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, err
		}
		obj, err := scene.UnmarshalObject(p.Object)
		if err != nil {
			return nil, err
		}
		return &DeleteAction{Object: obj, Index: p.Index}, nil
	case "move":
		var p movePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, err
		}
		return &MoveAction{IDs: p.IDs, DX: p.DX, DY: p.DY}, nil
	case "resize":
		id, before, after, err := unmarshalBeforeAfter(env.Payload)
		if err != nil {
			return nil, err
		}
		return &ResizeAction{ID: id, Before: before, After: after}, nil
	case "rotate":
		var p scalarChangePayload[float64]
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, err
		}
		return &RotateAction{ID: p.ID, Before: p.Before, After: p.After}, nil
	case "flip":
		var p flipPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, err
		}
		return &FlipAction{ID: p.ID, Horizontal: p.Horizontal}, nil
	case "colorChange":
		var p scalarChangePayload[string]
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, err
		}
		return &ColorAction{ID: p.ID, Before: p.Before, After: p.After}, nil
	case "widthChange":
		var p scalarChangePayload[float64]
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, err
		}
		return &WidthAction{ID: p.ID, Before: p.Before, After: p.After}, nil
	case "textEdit":
		id, before, after, err := unmarshalBeforeAfter(env.Payload)
		if err != nil {
			return nil, err
		}
		bt, okB := before.(*scene.Text)
		at, okA := after.(*scene.Text)
		if !okB || !okA {
			return nil, fmt.Errorf("textEdit action on non-text payload")
		}
		return &TextEditAction{ID: id, Before: bt, After: at}, nil
	case "layerOp":
		var p scalarChangePayload[int]
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, err
		}
		return &LayerAction{ID: p.ID, Before: p.Before, After: p.After}, nil
	case "transform":
		var p transformPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, err
		}
		a := &TransformAction{IDs: p.IDs}
		for i := range p.IDs {
			before, err := scene.UnmarshalObject(p.Before[i])
			if err != nil {
				return nil, err
			}
			after, err := scene.UnmarshalObject(p.After[i])
			if err != nil {
				return nil, err
			}
			a.Before = append(a.Before, before)
			a.After = append(a.After, after)
		}
		return a, nil
	case "batchDelete":
		var p batchDeletePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, err
		}
		a := &BatchDeleteAction{}
		for _, item := range p.Items {
			obj, err := scene.UnmarshalObject(item.Object)
			if err != nil {
				return nil, err
			}
			a.Items = append(a.Items, DeletedObject{Object: obj, Index: item.Index})
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", env.Type)
	}
}

func unmarshalBeforeAfter(payload json.RawMessage) (int, scene.Object, scene.Object, error) {
	var p beforeAfterPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return 0, nil, nil, err
	}
	before, err := scene.UnmarshalObject(p.Before)
	if err != nil {
		return 0, nil, nil, err
	}
	after, err := scene.UnmarshalObject(p.After)
	if err != nil {
		return 0, nil, nil, err
	}
	return p.ID, before, after, nil
}

type legacyDocumentJSON struct {
	Version          int              `json:"version"`
	Legacy           bool             `json:"legacy"`
	Pages            []legacyPageJSON `json:"pages"`
	CurrentPageIndex int              `json:"currentPageIndex"`
	NextObjectID     int              `json:"nextObjectId"`
}

type legacyPageJSON struct {
	ID      string            `json:"id"`
	Objects json.RawMessage   `json:"objects"`
	Undo    []json.RawMessage `json:"undo,omitempty"`
	Redo    []json.RawMessage `json:"redo,omitempty"`
}

// ExportLegacy serializes the document with each page's undo/redo stacks
// inlined.
func (e *Editor) ExportLegacy() ([]byte, error) {
	out := legacyDocumentJSON{
		Version:          document.FormatVersion,
		Legacy:           true,
		Pages:            make([]legacyPageJSON, len(e.doc.Pages)),
		CurrentPageIndex: e.doc.CurrentPageIndex,
		NextObjectID:     e.doc.NextObjectID,
	}

	for i, p := range e.doc.Pages {
		objects, err := scene.MarshalObjects(p.Objects)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		page := legacyPageJSON{ID: p.ID, Objects: objects}

		if h, ok := e.histories[p.ID]; ok {
			if page.Undo, err = marshalActions(h.UndoStack()); err != nil {
				return nil, fmt.Errorf("page %d undo: %w", i, err)
			}
			if page.Redo, err = marshalActions(h.RedoStack()); err != nil {
				return nil, fmt.Errorf("page %d redo: %w", i, err)
			}
		}
		out.Pages[i] = page
	}
	return json.Marshal(out)
}

// ImportLegacy restores an editor session, including per-page histories,
// from a legacy export. Undecodable actions are dropped rather than
// failing the whole load; a board without history is still a board.
func ImportLegacy(data []byte, historyLimit int) (*Editor, error) {
	doc, err := document.Unmarshal(data)
	if err != nil {
		return nil, err
	}

	var in legacyDocumentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode legacy document: %w", err)
	}

	e := NewEditor(doc, historyLimit)
	for i, p := range in.Pages {
		if i >= len(doc.Pages) || (len(p.Undo) == 0 && len(p.Redo) == 0) {
			continue
		}
		h := NewHistory(historyLimit)
		for _, raw := range p.Undo {
			if a, err := UnmarshalAction(raw); err == nil {
				h.undo = append(h.undo, a)
			}
		}
		for _, raw := range p.Redo {
			if a, err := UnmarshalAction(raw); err == nil {
				h.redo = append(h.redo, a)
			}
		}
		e.histories[doc.Pages[i].ID] = h
	}
	return e, nil
}

func marshalActions(actions []Action) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(actions))
	for i, a := range actions {
		data, err := MarshalAction(a)
		if err != nil {
			return nil, err
		}
		out[i] = data
	}
	return out, nil
}
