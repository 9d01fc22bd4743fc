package server

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/carvy/internal/shared"
	"github.com/goccy/go-json"
)

// Collection is one entity kind served by [ListingHandler]. Find may be nil,
// in which case only the full listing is available.
type Collection struct {
	Name string
	List func() (any, error)
	Find func(id int64) (any, error)
}

// ListingHandler serves GET /api (collection names), GET /api/{kind} and GET /api/{kind}/{id}.
type ListingHandler struct {
	collections map[string]Collection
	logger      *log.Logger
}

func NewListingHandler(logger *log.Logger, collections ...Collection) *ListingHandler {
	h := &ListingHandler{collections: make(map[string]Collection, len(collections)), logger: logger}
	for _, c := range collections {
		h.collections[c.Name] = c
	}
	return h
}

func (h *ListingHandler) Routes() []string {
	return []string{"GET /api", "GET /api/{kind}", "GET /api/{kind}/{id}"}
}

func (h *ListingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	if kind == "" {
		names := make([]string, 0, len(h.collections))
		for name := range h.collections {
			names = append(names, name)
		}
		sort.Strings(names)
		writeJSON(w, http.StatusOK, map[string]any{"collections": names})
		return
	}

	c, ok := h.collections[kind]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown collection "+strconv.Quote(kind))
		return
	}

	raw := r.PathValue("id")
	if raw == "" {
		data, err := c.List()
		if err != nil {
			h.fail(w, kind, err)
			return
		}
		writeJSON(w, http.StatusOK, data)
		return
	}

	if c.Find == nil {
		writeError(w, http.StatusNotFound, kind+" cannot be looked up by id")
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	data, err := c.Find(id)
	if err != nil {
		h.fail(w, kind, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *ListingHandler) fail(w http.ResponseWriter, kind string, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.logger.Error("failed to load collection", "kind", kind, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

// HealthHandler answers GET /health with the active storage backend.
type HealthHandler struct {
	Backend string
}

func (h HealthHandler) Routes() []string { return []string{"GET /health"} }

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "backend": h.Backend})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
