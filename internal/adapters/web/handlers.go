package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"frigora/internal/app"

	"github.com/go-chi/chi/v5"
)

// Options configures the HTTP adapter.
type Options struct {
	AllowedOrigins string
	JWTSecret      string
	SessionTTL     time.Duration
	Logger         *slog.Logger
}

// Handler holds the ApplicationService, the chi router, and the per-user session store.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	sessions  *sessionStore
	jwtSecret string
	logger    *slog.Logger
}

// NewHandler creates and wires the chi router with all routes. The session purge
// goroutine stops when ctx is cancelled.
func NewHandler(ctx context.Context, svc app.ApplicationService, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "web")

	h := &Handler{
		svc:       svc,
		sessions:  newSessionStore(opts.SessionTTL),
		jwtSecret: opts.JWTSecret,
		logger:    logger,
	}
	h.sessions.startPurge(ctx)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recoverer(logger))
	r.Use(CORS(opts.AllowedOrigins))

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Get("/api/categories", h.categories)
	r.Get("/api/units", h.units)
	r.Get("/api/reports/inventory/schema", h.reportSchema)

	// ── Protected API routes (return 401 JSON if unauthenticated) ────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Post("/api/auth/logout", h.logout)

		// ── Inventory listing ─────────────────────────────────────────────────
		r.Get("/api/inventory", h.loadInventory)
		r.Get("/api/inventory/view", h.viewInventory)
		r.Get("/api/inventory/alerts", h.inventoryAlerts)
		r.Get("/api/inventory/summary", h.inventorySummary)
		r.Post("/api/inventory/search", h.searchInventory)
		r.Post("/api/inventory/search/reset", h.resetSearch)
		r.Post("/api/inventory/category/toggle", h.toggleCategory)

		// ── Reports ───────────────────────────────────────────────────────────
		r.Get("/api/reports/inventory", h.inventoryReport)

		// ── Items ─────────────────────────────────────────────────────────────
		r.Post("/api/items", h.createItem)
		r.Get("/api/items/{id}", h.getItem)
		r.Put("/api/items/{id}", h.updateItem)
		r.Delete("/api/items/{id}", h.deleteItem)
	})

	h.router = r
	return r
}

// health returns service status and the number of live sessions.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	}
	writeJSON(w, response{Status: "ok", Sessions: h.sessions.len()})
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Categories())
}

func (h *Handler) units(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Units())
}

// itemID extracts the {id} URL parameter, writing a 400 on failure.
func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, "invalid item id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
