package app

import (
	"context"

	"frigora/internal/core"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
//
// Operations taking a *core.Session mutate it; callers serialise access per session.
type ApplicationService interface {
	// LoadInventory fetches the session's current source into a new load, replacing
	// the previous one. The result carries the load's first alert evaluation.
	LoadInventory(ctx context.Context, sess *core.Session) (*InventoryResult, error)

	// SearchInventory switches the session to a store-side name search and loads it.
	// A blank term switches back to the full listing.
	SearchInventory(ctx context.Context, sess *core.Session, term string) (*InventoryResult, error)

	// ResetSearch switches the session to the full listing and loads it.
	ResetSearch(ctx context.Context, sess *core.Session) (*InventoryResult, error)

	// ViewInventory re-filters the current load without refetching. Non-empty
	// request fields override the session criteria for this call only.
	ViewInventory(ctx context.Context, sess *core.Session, req ViewRequest) (*InventoryResult, error)

	// ToggleCategory selects a category, or clears it when already selected, and returns the new view.
	ToggleCategory(ctx context.Context, sess *core.Session, category string) (*InventoryResult, error)

	// Alerts evaluates the current load's notification batch. Only the first call per load raises alerts.
	Alerts(ctx context.Context, sess *core.Session) (*AlertsResult, error)

	// Summary counts the current load's items per freshness bucket.
	Summary(ctx context.Context, sess *core.Session) (*SummaryResult, error)

	// InventoryReport builds a report over the user's full listing, independent of any search.
	InventoryReport(ctx context.Context, sess *core.Session, req ReportRequest) (*core.Report, error)

	// CreateItem validates and stores a new item, adding it to a full-listing load.
	CreateItem(ctx context.Context, sess *core.Session, req ItemRequest) (*ItemView, error)

	// GetItem returns one of the user's items with its freshness.
	GetItem(ctx context.Context, sess *core.Session, id int64) (*ItemView, error)

	// UpdateItem validates and replaces an item's editable fields.
	UpdateItem(ctx context.Context, sess *core.Session, id int64, req ItemRequest) (*ItemView, error)

	// DeleteItem removes an item and drops it from the current load.
	DeleteItem(ctx context.Context, sess *core.Session, id int64) error

	// Categories returns the fixed category catalogue.
	Categories() []core.CategoryInfo

	// Units returns the unit suggestions for item forms.
	Units() []string
}
