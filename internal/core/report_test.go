package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"frigora/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport_RowsSummaryAndMeta(t *testing.T) {
	now := created(2025, 6, 2, 12)
	items := fixtureItems()
	items[0].Quantity = decimal.RequireFromString("1.5")
	items[0].Unit = "kg"
	items[0].Location = "Freezer"

	req := core.ReportRequest{Range: core.DateRange{From: "2025-05-31", To: "2025-06-30"}}
	rep, err := core.BuildReport(items, req, now, core.ReportOptions{})
	require.NoError(t, err)

	// Sorted by creation date, malformed creation dates excluded.
	require.Len(t, rep.Rows, 4)
	assert.Equal(t, "Burger", rep.Rows[0].Name)
	assert.Equal(t, "Chicken", rep.Rows[1].Name)
	assert.Equal(t, "Spinach", rep.Rows[2].Name)
	assert.Equal(t, "Beef", rep.Rows[3].Name)
	for i, row := range rep.Rows {
		assert.Equal(t, i+1, row.Index)
	}

	chicken := rep.Rows[1]
	assert.Equal(t, "1.5 kg", chicken.Quantity)
	assert.Equal(t, "20/6/2025", chicken.ExpiresOn)
	assert.Equal(t, "1/6/2025", chicken.CreatedOn)
	assert.Equal(t, "Good", chicken.Status)

	beef := rep.Rows[3]
	assert.Equal(t, "-", beef.ExpiresOn)
	assert.Equal(t, "-", beef.Status)

	assert.Equal(t, "Expired", rep.Rows[0].Status)
	assert.Equal(t, "Near Expiry", rep.Rows[2].Status)

	assert.Equal(t, core.Summary{Total: 4, Good: 1, NearExpiry: 1, Expired: 1, NoExpiry: 1}, rep.Summary)
	assert.Equal(t, "2025053120250630", rep.Meta.FilenameToken)
	assert.Equal(t, "Food_Report_2025053120250630.pdf", rep.Meta.Filename("pdf"))
	assert.Equal(t, "Food_Report_2025053120250630.csv", rep.Meta.Filename(".csv"))
	assert.Equal(t, now, rep.Meta.GeneratedAt)
}

func TestBuildReport_CategoryAndStatusFilters(t *testing.T) {
	now := created(2025, 6, 2, 12)
	req := core.ReportRequest{
		Range:    core.DateRange{From: "2025-05-01", To: "2025-06-30"},
		Category: core.CategoryProtein,
		Status:   core.Safe,
	}
	rep, err := core.BuildReport(fixtureItems(), req, now, core.ReportOptions{DateLayout: core.ISODate})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, "Chicken", rep.Rows[0].Name)
	assert.Equal(t, "2025-06-20", rep.Rows[0].ExpiresOn)
}

func TestBuildReport_InvalidRange(t *testing.T) {
	now := created(2025, 6, 2, 12)
	for name, rng := range map[string]core.DateRange{
		"missing to":   {From: "2025-06-01"},
		"missing from": {To: "2025-06-01"},
		"inverted":     {From: "2025-06-30", To: "2025-06-01"},
		"garbage":      {From: "yesterday", To: "2025-06-01"},
	} {
		t.Run(name, func(t *testing.T) {
			rep, err := core.BuildReport(fixtureItems(), core.ReportRequest{Range: rng}, now, core.ReportOptions{})
			assert.ErrorIs(t, err, core.ErrInvalidRange)
			assert.Nil(t, rep)
		})
	}
}

func TestBuildReport_EmptyRangeYieldsEmptyReport(t *testing.T) {
	now := created(2025, 6, 2, 12)
	req := core.ReportRequest{Range: core.DateRange{From: "2024-01-01", To: "2024-01-31"}}
	rep, err := core.BuildReport(fixtureItems(), req, now, core.ReportOptions{})
	require.NoError(t, err)
	assert.Empty(t, rep.Rows)
	assert.Equal(t, core.Summary{}, rep.Summary)
}

func TestReport_Table(t *testing.T) {
	now := created(2025, 6, 2, 12)
	req := core.ReportRequest{Range: core.DateRange{From: "2025-06-01", To: "2025-06-01"}}
	rep, err := core.BuildReport(fixtureItems(), req, now, core.ReportOptions{})
	require.NoError(t, err)

	header, body := rep.Table()
	assert.Equal(t, core.ReportColumns, header)
	require.Len(t, body, 1)
	assert.Equal(t, []string{"1", "Chicken", "Protein", "0", "", "20/6/2025", "1/6/2025", "Good"}, body[0])
}

// listOnlyStore records whether Search was used; reports must read the full listing.
type listOnlyStore struct {
	core.InventoryStore
	items    []core.Item
	listed   int
	searched int
}

func (s *listOnlyStore) ListByUser(context.Context, int64) ([]core.Item, error) {
	s.listed++
	return s.items, nil
}

func (s *listOnlyStore) Search(context.Context, int64, string) ([]core.Item, error) {
	s.searched++
	return nil, errors.New("search must not be used for reports")
}

func TestReportingService_UsesFullListing(t *testing.T) {
	store := &listOnlyStore{items: fixtureItems()}
	clock := func() time.Time { return created(2025, 6, 2, 12) }
	svc := core.NewReportingService(store, core.NewClassifierWithClock(jakarta, clock), core.ReportOptions{})

	rep, err := svc.InventoryReport(context.Background(), 1, core.ReportRequest{
		Range: core.DateRange{From: "2025-06-01", To: "2025-06-30"},
	})
	require.NoError(t, err)
	assert.Len(t, rep.Rows, 3)
	assert.Equal(t, 1, store.listed)
	assert.Zero(t, store.searched)

	_, err = svc.InventoryReport(context.Background(), 1, core.ReportRequest{})
	assert.ErrorIs(t, err, core.ErrInvalidRange)
	assert.Equal(t, 1, store.listed, "invalid range must not hit the store")
}

func pantryItems() []core.Item {
	return []core.Item{
		{ID: 1, Name: "Milk", Category: core.CategoryProtein, CreatedAt: created(2025, 6, 1, 9), ExpiresAt: date(2025, 6, 9)},
		{ID: 2, Name: "Bread", Category: core.CategoryFastFood, CreatedAt: created(2025, 6, 5, 9), ExpiresAt: date(2025, 6, 13)},
		{ID: 3, Name: "Rice", Category: core.CategoryVegetables, CreatedAt: created(2025, 6, 8, 9)},
	}
}

func TestSummarize_PantryScenario(t *testing.T) {
	now := created(2025, 6, 10, 12)
	assert.Equal(t, core.Summary{Total: 3, Good: 0, NearExpiry: 1, Expired: 1, NoExpiry: 1}, core.Summarize(pantryItems(), now))
}

func TestBuildReport_NoExpiryStatusFilter(t *testing.T) {
	now := created(2025, 6, 10, 12)
	req := core.ReportRequest{
		Range:  core.DateRange{From: "2025-06-08", To: "2025-06-08"},
		Status: core.NoExpiry,
	}
	rep, err := core.BuildReport(pantryItems(), req, now, core.ReportOptions{})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, 1, rep.Rows[0].Index)
	assert.Equal(t, "Rice", rep.Rows[0].Name)
	assert.Equal(t, "-", rep.Rows[0].ExpiresOn)
	assert.Equal(t, core.NoExpiry, rep.Rows[0].StatusKind)

	// Wider range: the filter alone keeps Rice out of the others.
	req.Range = core.DateRange{From: "2025-06-01", To: "2025-06-30"}
	rep, err = core.BuildReport(pantryItems(), req, now, core.ReportOptions{})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, "Rice", rep.Rows[0].Name)
}
