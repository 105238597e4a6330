package app

import (
	"time"

	"frigora/internal/core"
)

// ItemView is an item together with its freshness at the time of the call.
type ItemView struct {
	core.Item
	Freshness core.Freshness `json:"freshness"`
	Status    string         `json:"status"`
}

// InventoryResult is returned by the listing operations. Summary covers the
// whole load; Items is the filtered view.
type InventoryResult struct {
	LoadID   string        `json:"load_id"`
	Source   core.Source   `json:"source"`
	Criteria core.Criteria `json:"criteria"`
	Items    []ItemView    `json:"items"`
	Summary  core.Summary  `json:"summary"`
	Alerts   []core.Alert  `json:"alerts"`
	LoadedAt time.Time     `json:"loaded_at"`
}

// AlertsResult is returned by Alerts. Alerts is empty once the load has been notified.
type AlertsResult struct {
	LoadID string       `json:"load_id"`
	Alerts []core.Alert `json:"alerts"`
}

// SummaryResult is returned by Summary.
type SummaryResult struct {
	LoadID  string       `json:"load_id"`
	Summary core.Summary `json:"summary"`
}
