// Package document defines the persisted whiteboard document: an ordered
// list of pages, each holding a flat object list, plus the id allocator
// state. Undo/redo stacks are session-local and not part of this model
// (the legacy export mode in the engine package bolts them on).
package document

import (
	"github.com/basu-10/MioHub-sub000/internal/scene"
	"github.com/basu-10/MioHub-sub000/internal/typeid"
)

// FormatVersion is the current persisted format version.
const FormatVersion = 2

// Document is the root of the persisted form.
type Document struct {
	Version          int
	Pages            []Page
	CurrentPageIndex int
	NextObjectID     int
}

// Page is one whiteboard surface.
type Page struct {
	ID      string
	Objects []scene.Object
}

// New returns a document with a single empty page.
func New() *Document {
	return &Document{
		Version:      FormatVersion,
		Pages:        []Page{{ID: typeid.NewPageID()}},
		NextObjectID: 1,
	}
}

// CurrentPage returns the active page. The index is clamped so a malformed
// document can never leave the caller without a page.
func (d *Document) CurrentPage() *Page {
	if len(d.Pages) == 0 {
		d.Pages = []Page{{ID: typeid.NewPageID()}}
		d.CurrentPageIndex = 0
	}
	if d.CurrentPageIndex < 0 {
		d.CurrentPageIndex = 0
	}
	if d.CurrentPageIndex >= len(d.Pages) {
		d.CurrentPageIndex = len(d.Pages) - 1
	}
	return &d.Pages[d.CurrentPageIndex]
}

// AddPage appends a new empty page and returns its index.
func (d *Document) AddPage() int {
	d.Pages = append(d.Pages, Page{ID: typeid.NewPageID()})
	return len(d.Pages) - 1
}

// RemovePage deletes the page at index. The last remaining page is never
// removed; the call is then a no-op returning false.
func (d *Document) RemovePage(index int) bool {
	if len(d.Pages) <= 1 || index < 0 || index >= len(d.Pages) {
		return false
	}
	d.Pages = append(d.Pages[:index], d.Pages[index+1:]...)
	if d.CurrentPageIndex >= len(d.Pages) {
		d.CurrentPageIndex = len(d.Pages) - 1
	}
	return true
}

// AllocateID hands out the next object id. Ids are monotonic within a
// document and never reused, even after deletion.
func (d *Document) AllocateID() int {
	id := d.NextObjectID
	d.NextObjectID++
	return id
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{
		Version:          d.Version,
		Pages:            make([]Page, len(d.Pages)),
		CurrentPageIndex: d.CurrentPageIndex,
		NextObjectID:     d.NextObjectID,
	}
	for i, p := range d.Pages {
		objects := make([]scene.Object, len(p.Objects))
		for j, o := range p.Objects {
			objects[j] = o.Clone()
		}
		c.Pages[i] = Page{ID: p.ID, Objects: objects}
	}
	return c
}
