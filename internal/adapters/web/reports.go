package web

import (
	"net/http"
	"sync"

	"frigora/internal/app"
	"frigora/internal/core"
	"frigora/internal/export"

	"github.com/invopop/jsonschema"
)

// inventoryReport handles GET /api/reports/inventory?from=&to=&category=&status=&format=json|csv.
// The report always covers the user's full listing.
func (h *Handler) inventoryReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := app.ReportRequest{
		From:     q.Get("from"),
		To:       q.Get("to"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
	}
	format := q.Get("format")
	if format != "" && format != "json" && format != "csv" {
		writeError(w, r, "format must be json or csv", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	var (
		report *core.Report
		err    error
	)
	if !withSession(r, func(sess *core.Session) { report, err = h.svc.InventoryReport(r.Context(), sess, req) }) {
		writeError(w, r, "authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if format != "csv" {
		writeJSON(w, report)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+report.Meta.Filename("csv"))
	if err := export.WriteCSV(w, report); err != nil {
		h.logger.Warn("csv export failed", "request_id", requestIDFromContext(r.Context()), "error", err)
	}
}

var (
	reportSchemaOnce   sync.Once
	cachedReportSchema *jsonschema.Schema
)

// reportSchema handles GET /api/reports/inventory/schema: the JSON Schema of the
// report payload, for external renderers.
func (h *Handler) reportSchema(w http.ResponseWriter, r *http.Request) {
	reportSchemaOnce.Do(func() {
		reflector := jsonschema.Reflector{
			AllowAdditionalProperties: false,
			DoNotReference:            true,
		}
		cachedReportSchema = reflector.Reflect(&core.Report{})
	})
	writeJSON(w, cachedReportSchema)
}
