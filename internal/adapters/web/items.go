package web

import (
	"net/http"

	"frigora/internal/app"
	"frigora/internal/core"
)

// createItem handles POST /api/items.
func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req app.ItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		item *app.ItemView
		err  error
	)
	if !withSession(r, func(sess *core.Session) { item, err = h.svc.CreateItem(r.Context(), sess, req) }) {
		writeError(w, r, "authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, item)
}

// getItem handles GET /api/items/{id}.
func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	h.serveSession(w, r, func(sess *core.Session) (any, error) {
		return h.svc.GetItem(r.Context(), sess, id)
	})
}

// updateItem handles PUT /api/items/{id}.
func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	var req app.ItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.serveSession(w, r, func(sess *core.Session) (any, error) {
		return h.svc.UpdateItem(r.Context(), sess, id, req)
	})
}

// deleteItem handles DELETE /api/items/{id}.
func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	var err error
	if !withSession(r, func(sess *core.Session) { err = h.svc.DeleteItem(r.Context(), sess, id) }) {
		writeError(w, r, "authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
