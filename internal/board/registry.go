// Package board keeps the set of live whiteboards. Boards are held in
// memory only; export and import over HTTP are the persistence story.
package board

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/basu-10/MioHub-sub000/internal/collab"
	"github.com/basu-10/MioHub-sub000/internal/document"
	"github.com/basu-10/MioHub-sub000/internal/typeid"
)

var ErrNotFound = errors.New("board not found")

type Board struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`

	state *collab.BoardState
}

// State returns the board's live collaborative state.
func (b *Board) State() *collab.BoardState { return b.state }

type Registry struct {
	mu     sync.RWMutex
	boards map[string]*Board
}

func NewRegistry() *Registry {
	return &Registry{boards: make(map[string]*Board)}
}

// Create registers a new board around a fresh single-page document.
func (r *Registry) Create(name string) *Board {
	b := &Board{
		ID:        typeid.NewBoardID(),
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		state:     collab.NewBoardState(document.New(), name),
	}
	r.mu.Lock()
	r.boards[b.ID] = b
	r.mu.Unlock()
	return b
}

// Import registers a board around an existing document.
func (r *Registry) Import(name string, doc *document.Document) *Board {
	b := &Board{
		ID:        typeid.NewBoardID(),
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		state:     collab.NewBoardState(doc, name),
	}
	r.mu.Lock()
	r.boards[b.ID] = b
	r.mu.Unlock()
	return b
}

func (r *Registry) Get(id string) (*Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.boards[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (r *Registry) List() []*Board {
	r.mu.RLock()
	out := make([]*Board, 0, len(r.boards))
	for _, b := range r.boards {
		out = append(out, b)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.boards[id]; !ok {
		return ErrNotFound
	}
	delete(r.boards, id)
	return nil
}

// LoadState adapts the registry to the hub's loader signature.
func (r *Registry) LoadState(boardID string) *collab.BoardState {
	b, err := r.Get(boardID)
	if err != nil {
		return nil
	}
	return b.state
}
