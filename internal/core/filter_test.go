package core_test

import (
	"testing"
	"time"

	"frigora/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func created(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, jakarta)
}

func fixtureItems() []core.Item {
	return []core.Item{
		{ID: 1, Name: "Chicken", Category: core.CategoryProtein, CreatedAt: created(2025, 6, 1, 9), ExpiresAt: date(2025, 6, 20)},
		{ID: 2, Name: "Spinach", Category: core.CategoryVegetables, CreatedAt: created(2025, 6, 2, 23), ExpiresAt: date(2025, 6, 3)},
		{ID: 3, Name: "Burger", Category: core.CategoryFastFood, CreatedAt: created(2025, 5, 31, 8), ExpiresAt: date(2025, 5, 31)},
		{ID: 4, Name: "Beef", Category: core.CategoryProtein, CreatedAt: created(2025, 6, 30, 22), ExpiresAt: nil},
		{ID: 5, Name: "Broken", Category: core.CategoryProtein, MalformedCreatedAt: true},
	}
}

func ids(items []core.Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestFilterInventory_NoCriteriaIsIdentity(t *testing.T) {
	now := created(2025, 6, 2, 12)
	got, err := core.FilterInventory(fixtureItems(), core.Criteria{}, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(got))
}

func TestFilterInventory_Category(t *testing.T) {
	now := created(2025, 6, 2, 12)
	got, err := core.FilterInventory(fixtureItems(), core.Criteria{Category: core.CategoryProtein}, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4, 5}, ids(got))

	// Case-sensitive: a lowercase name matches nothing.
	got, err = core.FilterInventory(fixtureItems(), core.Criteria{Category: "protein"}, now)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFilterInventory_RangeIsInclusiveAndSkipsMalformed(t *testing.T) {
	now := created(2025, 7, 1, 12)
	c := core.Criteria{Range: &core.DateRange{From: "2025-06-01", To: "2025-06-30"}}

	got, err := core.FilterInventory(fixtureItems(), c, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 4}, ids(got))
}

func TestFilterInventory_Status(t *testing.T) {
	now := created(2025, 6, 2, 12)
	got, err := core.FilterInventory(fixtureItems(), core.Criteria{Status: core.Expired}, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(got))
}

func TestFilterInventory_Idempotent(t *testing.T) {
	now := created(2025, 6, 2, 12)
	c := core.Criteria{Category: core.CategoryProtein, Status: core.Safe}
	once, err := core.FilterInventory(fixtureItems(), c, now)
	require.NoError(t, err)
	twice, err := core.FilterInventory(once, c, now)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestFilterInventory_HalfOpenRangeRejected(t *testing.T) {
	c := core.Criteria{Range: &core.DateRange{From: "2025-06-01"}}
	_, err := core.FilterInventory(fixtureItems(), c, time.Now())
	assert.ErrorIs(t, err, core.ErrInvalidRange)
}

func TestToggleCategory(t *testing.T) {
	var c core.Criteria
	c.ToggleCategory(core.CategoryFruits)
	assert.Equal(t, core.CategoryFruits, c.Category)

	c.ToggleCategory(core.CategoryProtein)
	assert.Equal(t, core.CategoryProtein, c.Category)

	c.ToggleCategory(core.CategoryProtein)
	assert.Empty(t, c.Category)
}

func TestSummarize(t *testing.T) {
	now := created(2025, 6, 2, 12)
	s := core.Summarize(fixtureItems(), now)

	assert.Equal(t, core.Summary{Total: 5, Good: 1, NearExpiry: 1, Expired: 1, NoExpiry: 2}, s)
	assert.Equal(t, s.Total, s.Good+s.NearExpiry+s.Expired+s.NoExpiry)

	assert.Equal(t, core.Summary{}, core.Summarize(nil, now))
}
