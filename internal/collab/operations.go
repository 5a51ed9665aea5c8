package collab

import (
	"fmt"
	"sync"
	"time"

	"github.com/basu-10/MioHub-sub000/internal/document"
	"github.com/basu-10/MioHub-sub000/internal/engine"
	"github.com/basu-10/MioHub-sub000/internal/typeid"
)

// BoardState holds the authoritative document for a room. Clients submit
// operations; the state applies them in arrival order and stamps each with
// a server sequence number, which is the only ordering clients trust.
type BoardState struct {
	mu        sync.RWMutex
	doc       *document.Document
	name      string
	serverSeq int64
	opLog     []Operation
}

func NewBoardState(doc *document.Document, name string) *BoardState {
	return &BoardState{
		doc:  doc,
		name: name,
	}
}

// Snapshot returns the document serialized for a doc.sync, with the
// sequence number the snapshot is current as of.
func (bs *BoardState) Snapshot() ([]byte, int64, error) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	data, err := document.Marshal(bs.doc)
	if err != nil {
		return nil, 0, err
	}
	return data, bs.serverSeq, nil
}

// Name returns the board's display name.
func (bs *BoardState) Name() string {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.name
}

// ServerSeq returns the sequence number of the last applied operation.
func (bs *BoardState) ServerSeq() int64 {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.serverSeq
}

// OpLog returns the applied operations since the state was created.
func (bs *BoardState) OpLog() []Operation {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	out := make([]Operation, len(bs.opLog))
	copy(out, bs.opLog)
	return out
}

// ApplyOperation applies an operation and returns its server sequence.
func (bs *BoardState) ApplyOperation(op Operation) (int64, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if err := bs.applyLocked(op); err != nil {
		return 0, err
	}

	bs.serverSeq++
	bs.opLog = append(bs.opLog, op)
	return bs.serverSeq, nil
}

func (bs *BoardState) applyLocked(op Operation) error {
	switch op.Type {
	case "page.apply":
		return bs.applyPageAction(op)
	case "page.add":
		return bs.applyPageAdd(op)
	case "page.remove":
		return bs.applyPageRemove(op)
	case "board.rename":
		bs.name = op.Name
		return nil
	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}
}

// applyPageAction replays an action envelope against one page's objects.
// The envelope is the same format the undo log persists, so every edit a
// client can make locally is expressible as exactly one operation.
func (bs *BoardState) applyPageAction(op Operation) error {
	if op.PageIndex < 0 || op.PageIndex >= len(bs.doc.Pages) {
		return fmt.Errorf("page index %d out of range", op.PageIndex)
	}
	action, err := engine.UnmarshalAction(op.Action)
	if err != nil {
		return fmt.Errorf("invalid action: %w", err)
	}

	page := &bs.doc.Pages[op.PageIndex]
	action.Apply(&page.Objects)

	// Ids minted by other clients must never collide with local ones.
	for _, o := range page.Objects {
		if o.Common().ID >= bs.doc.NextObjectID {
			bs.doc.NextObjectID = o.Common().ID + 1
		}
	}
	return nil
}

func (bs *BoardState) applyPageAdd(op Operation) error {
	id := op.PageID
	if id == "" {
		id = typeid.NewPageID()
	}
	for _, p := range bs.doc.Pages {
		if p.ID == id {
			return fmt.Errorf("page %s already exists", id)
		}
	}
	bs.doc.Pages = append(bs.doc.Pages, document.Page{ID: id})
	return nil
}

func (bs *BoardState) applyPageRemove(op Operation) error {
	for i, p := range bs.doc.Pages {
		if p.ID == op.PageID {
			if !bs.doc.RemovePage(i) {
				return fmt.Errorf("cannot remove the last page")
			}
			return nil
		}
	}
	return fmt.Errorf("page %s not found", op.PageID)
}

// GetServerTimestamp returns the current server timestamp
func GetServerTimestamp() int64 {
	return time.Now().UnixMilli()
}
