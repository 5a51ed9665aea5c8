package engine

import "github.com/basu-10/MioHub-sub000/internal/scene"

// PasteNudge is the cascade offset in world units for anchor-less pastes.
const PasteNudge = 32.0

// pasteCascade caps the cascade counter; after that many anchor-less
// pastes the diagonal restarts from one step.
const pasteCascade = 10

// Clipboard holds a deep snapshot of copied objects plus their aggregate
// box at copy time. The snapshot is immune to later mutation or deletion
// of the source objects and survives until the next copy.
type Clipboard struct {
	items  []scene.Object
	bounds scene.Rect
	repeat int
}

// NewClipboard returns an empty clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// Copy snapshots the objects with the given ids. Runtime-only fields are
// dropped by Clone and rebuilt on paste. An empty id set clears any stale
// clipboard and returns 0. A fresh copy restarts the paste cascade.
func (c *Clipboard) Copy(objects []scene.Object, ids []int) int {
	c.items = nil
	c.bounds = scene.Rect{}
	c.repeat = 0
	if len(ids) == 0 {
		return 0
	}

	for _, o := range objects {
		for _, id := range ids {
			if o.Common().ID == id {
				c.items = append(c.items, o.Clone())
				break
			}
		}
	}
	c.bounds = UnionBounds(c.items)
	return len(c.items)
}

// IsEmpty reports whether the clipboard holds a snapshot.
func (c *Clipboard) IsEmpty() bool { return len(c.items) == 0 }

// Paste materializes the snapshot: each object gets a fresh id from nextID
// and a uniform translation. With an anchor (paste-at-cursor) the snapshot's
// center lands on the anchor and the cascade counter resets; without one,
// repeated pastes step diagonally by PasteNudge so they never stack exactly.
// Pasting an empty clipboard returns nil.
func (c *Clipboard) Paste(nextID func() int, anchor *scene.Point) []scene.Object {
	if len(c.items) == 0 {
		return nil
	}

	var dx, dy float64
	if anchor != nil {
		center := c.bounds.Center()
		dx = anchor.X - center.X
		dy = anchor.Y - center.Y
		c.repeat = 0
	} else {
		c.repeat++
		if c.repeat > pasteCascade {
			c.repeat = 1
		}
		dx = PasteNudge * float64(c.repeat)
		dy = PasteNudge * float64(c.repeat)
	}

	pasted := make([]scene.Object, 0, len(c.items))
	for _, item := range c.items {
		o := item.Clone()
		o.Common().ID = nextID()
		o.Translate(dx, dy)
		pasted = append(pasted, o)
	}
	return pasted
}
