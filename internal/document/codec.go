package document

import (
	"encoding/json"
	"fmt"

	"github.com/basu-10/MioHub-sub000/internal/scene"
	"github.com/basu-10/MioHub-sub000/internal/typeid"
)

type documentJSON struct {
	Version          int        `json:"version"`
	Pages            []pageJSON `json:"pages"`
	CurrentPageIndex int        `json:"currentPageIndex"`
	NextObjectID     int        `json:"nextObjectId"`
}

type pageJSON struct {
	ID      string          `json:"id"`
	Objects json.RawMessage `json:"objects"`
}

// Marshal serializes a document to its persisted JSON form.
func Marshal(d *Document) ([]byte, error) {
	out := documentJSON{
		Version:          d.Version,
		Pages:            make([]pageJSON, len(d.Pages)),
		CurrentPageIndex: d.CurrentPageIndex,
		NextObjectID:     d.NextObjectID,
	}
	for i, p := range d.Pages {
		objects, err := scene.MarshalObjects(p.Objects)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		out.Pages[i] = pageJSON{ID: p.ID, Objects: objects}
	}
	return json.Marshal(out)
}

// Unmarshal decodes a persisted document, validating object envelopes and
// repairing what can be repaired (missing page ids, stale id allocator).
// A document that cannot be decoded at all is the caller's problem; the
// engine never sees it.
func Unmarshal(data []byte) (*Document, error) {
	var in documentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if in.Version <= 0 || in.Version > FormatVersion {
		return nil, fmt.Errorf("unsupported document version %d", in.Version)
	}

	d := &Document{
		Version:          FormatVersion,
		Pages:            make([]Page, len(in.Pages)),
		CurrentPageIndex: in.CurrentPageIndex,
		NextObjectID:     in.NextObjectID,
	}

	maxID := 0
	for i, p := range in.Pages {
		objects, err := scene.UnmarshalObjects(p.Objects)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		for _, o := range objects {
			if o.Common().ID > maxID {
				maxID = o.Common().ID
			}
		}
		id := p.ID
		if id == "" {
			id = typeid.NewPageID()
		}
		d.Pages[i] = Page{ID: id, Objects: objects}
	}

	// Never hand out an id that is already in use.
	if d.NextObjectID <= maxID {
		d.NextObjectID = maxID + 1
	}
	if d.NextObjectID < 1 {
		d.NextObjectID = 1
	}
	d.CurrentPage()
	return d, nil
}
