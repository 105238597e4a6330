package web

import (
	"net/http"

	"frigora/internal/app"
	"frigora/internal/core"
)

// serveSession runs fn under the session lock and writes its result as JSON.
func (h *Handler) serveSession(w http.ResponseWriter, r *http.Request, fn func(sess *core.Session) (any, error)) {
	var (
		res any
		err error
	)
	if !withSession(r, func(sess *core.Session) { res, err = fn(sess) }) {
		writeError(w, r, "authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// loadInventory handles GET /api/inventory: a fresh load from the session's source.
func (h *Handler) loadInventory(w http.ResponseWriter, r *http.Request) {
	h.serveSession(w, r, func(sess *core.Session) (any, error) {
		return h.svc.LoadInventory(r.Context(), sess)
	})
}

// viewInventory handles GET /api/inventory/view?category=&status=.
func (h *Handler) viewInventory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := app.ViewRequest{Category: q.Get("category"), Status: q.Get("status")}
	h.serveSession(w, r, func(sess *core.Session) (any, error) {
		return h.svc.ViewInventory(r.Context(), sess, req)
	})
}

func (h *Handler) inventoryAlerts(w http.ResponseWriter, r *http.Request) {
	h.serveSession(w, r, func(sess *core.Session) (any, error) {
		return h.svc.Alerts(r.Context(), sess)
	})
}

func (h *Handler) inventorySummary(w http.ResponseWriter, r *http.Request) {
	h.serveSession(w, r, func(sess *core.Session) (any, error) {
		return h.svc.Summary(r.Context(), sess)
	})
}

// searchInventory handles POST /api/inventory/search {"term": "..."}.
func (h *Handler) searchInventory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Term string `json:"term"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.serveSession(w, r, func(sess *core.Session) (any, error) {
		return h.svc.SearchInventory(r.Context(), sess, req.Term)
	})
}

func (h *Handler) resetSearch(w http.ResponseWriter, r *http.Request) {
	h.serveSession(w, r, func(sess *core.Session) (any, error) {
		return h.svc.ResetSearch(r.Context(), sess)
	})
}

// toggleCategory handles POST /api/inventory/category/toggle {"category": "..."}.
func (h *Handler) toggleCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.serveSession(w, r, func(sess *core.Session) (any, error) {
		return h.svc.ToggleCategory(r.Context(), sess, req.Category)
	})
}
