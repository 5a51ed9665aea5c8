package export

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/basu-10/MioHub-sub000/internal/board"
	"github.com/basu-10/MioHub-sub000/internal/document"
)

type Handler struct {
	registry *board.Registry
	renderer *Renderer
}

func NewHandler(registry *board.Registry, renderer *Renderer) *Handler {
	return &Handler{registry: registry, renderer: renderer}
}

// ExportPNG renders one page of a board. The page is selected with the
// "page" query parameter, defaulting to the document's current page.
func (h *Handler) ExportPNG(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.loadDocument(w, r)
	if !ok {
		return
	}

	page := doc.CurrentPage()
	if raw := r.URL.Query().Get("page"); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil || idx < 0 || idx >= len(doc.Pages) {
			http.Error(w, "invalid page index", http.StatusBadRequest)
			return
		}
		page = &doc.Pages[idx]
	}

	data, err := h.renderer.EncodePNG(page)
	if err != nil {
		slog.Error("render png", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="board.png"`)
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.Write(data)
}

// ExportPDF renders the whole board, one PDF sheet per page.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.loadDocument(w, r)
	if !ok {
		return
	}

	data, err := h.renderer.EncodePDF(doc)
	if err != nil {
		slog.Error("render pdf", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="board.pdf"`)
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.Write(data)
}

// loadDocument resolves the board and decodes a stable copy of its
// document, so a long render never races concurrent edits.
func (h *Handler) loadDocument(w http.ResponseWriter, r *http.Request) (*document.Document, bool) {
	b, err := h.registry.Get(mux.Vars(r)["boardId"])
	if err != nil {
		if errors.Is(err, board.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
		} else {
			slog.Error("load board", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return nil, false
	}

	data, _, err := b.State().Snapshot()
	if err != nil {
		slog.Error("snapshot board", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	doc, err := document.Unmarshal(data)
	if err != nil {
		slog.Error("decode snapshot", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	return doc, true
}
