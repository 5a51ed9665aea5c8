package engine

import "github.com/basu-10/MioHub-sub000/internal/scene"

// DefaultHistoryLimit bounds the undo stack depth.
const DefaultHistoryLimit = 100

// History holds the two bounded action stacks for one page. Linear history:
// recording anything discards the redo path. When the undo stack is full
// the oldest entry is evicted first: bounded memory, and the entry least
// likely to be wanted back.
type History struct {
	undo  []Action
	redo  []Action
	limit int
}

// NewHistory returns a history bounded to limit entries (DefaultHistoryLimit
// if limit is not positive).
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Record pushes a committed action onto the undo stack and clears redo.
func (h *History) Record(a Action) {
	if len(h.undo) >= h.limit {
		h.undo = h.undo[1:]
	}
	h.undo = append(h.undo, a)
	h.redo = h.redo[:0]
}

// Undo pops the newest action, applies its inverse to objs and moves it to
// the redo stack. No-op on an empty stack; returns the undone action.
func (h *History) Undo(objs *[]scene.Object) Action {
	if len(h.undo) == 0 {
		return nil
	}
	a := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	a.Invert(objs)
	h.redo = append(h.redo, a)
	return a
}

// Redo pops the newest undone action, reapplies it and moves it back to
// the undo stack. No-op on an empty stack; returns the redone action.
func (h *History) Redo(objs *[]scene.Object) Action {
	if len(h.redo) == 0 {
		return nil
	}
	a := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	a.Apply(objs)
	h.undo = append(h.undo, a)
	return a
}

// CanUndo reports whether an undo is available.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo is available.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Depth returns the undo and redo stack sizes.
func (h *History) Depth() (undo, redo int) { return len(h.undo), len(h.redo) }

// Clear drops both stacks.
func (h *History) Clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}

// UndoStack returns the undo entries oldest-first. Used by the legacy
// document export mode; callers must not mutate the result.
func (h *History) UndoStack() []Action { return h.undo }

// RedoStack returns the redo entries oldest-first.
func (h *History) RedoStack() []Action { return h.redo }
