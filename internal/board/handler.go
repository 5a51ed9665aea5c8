package board

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/basu-10/MioHub-sub000/internal/document"
)

const maxImportSize = 16 * 1024 * 1024

type Handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

type createRequest struct {
	Name string `json:"name"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	b := h.registry.Create(req.Name)
	slog.Info("board created", "board", b.ID, "name", b.Name)
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.List())
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.registry.Get(mux.Vars(r)["boardId"])
	if err != nil {
		handleRegistryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Delete(mux.Vars(r)["boardId"]); err != nil {
		handleRegistryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetDocument streams the board's current document as JSON, the same
// format Import accepts.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	b, err := h.registry.Get(mux.Vars(r)["boardId"])
	if err != nil {
		handleRegistryError(w, err)
		return
	}

	data, _, err := b.State().Snapshot()
	if err != nil {
		slog.Error("snapshot board", "error", err, "board", b.ID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type importRequest struct {
	Name     string          `json:"name"`
	Document json.RawMessage `json:"document"`
}

// Import creates a board from a previously exported document. Documents
// that fail validation are rejected wholesale; there is no partial load.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	var req importRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	doc, err := document.Unmarshal(req.Document)
	if err != nil {
		slog.Warn("rejected document import", "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	b := h.registry.Import(req.Name, doc)
	slog.Info("board imported", "board", b.ID, "name", b.Name, "pages", len(doc.Pages))
	writeJSON(w, http.StatusCreated, b)
}

func handleRegistryError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	slog.Error("registry error", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
