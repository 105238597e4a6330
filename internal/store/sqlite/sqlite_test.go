package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"frigora/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "frigora.db"), time.UTC)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func input(name string, cat core.Category, expires string) core.ItemInput {
	in := core.ItemInput{Name: name, Category: cat, Quantity: decimal.NewFromInt(1), Unit: "pcs", Location: "Fridge"}
	if expires != "" {
		t, _ := time.Parse(core.ISODate, expires)
		in.ExpiresAt = &t
	}
	return in
}

func TestStore_CreateListAndSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateItem(ctx, 1, input("Chicken Breast", core.CategoryProtein, "2025-06-20"))
	require.NoError(t, err)
	_, err = s.CreateItem(ctx, 1, input("Spinach", core.CategoryVegetables, ""))
	require.NoError(t, err)
	_, err = s.CreateItem(ctx, 2, input("Chicken Wings", core.CategoryProtein, "2025-06-10"))
	require.NoError(t, err)

	items, err := s.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Chicken Breast", items[0].Name)
	assert.Equal(t, "2025-06-20", items[0].ExpiresAt.Format(core.ISODate))
	assert.Nil(t, items[1].ExpiresAt)
	assert.True(t, items[0].CreatedAt.Before(items[1].CreatedAt))

	found, err := s.Search(ctx, 1, "CHICK")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(1), found[0].UserID)

	none, err := s.Search(ctx, 1, "%")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_UpdateAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	it, err := s.CreateItem(ctx, 1, input("Milk", core.CategoryProtein, "2025-06-05"))
	require.NoError(t, err)

	upd := input("Oat Milk", core.CategoryProtein, "")
	upd.Quantity = decimal.RequireFromString("0.75")
	got, err := s.UpdateItem(ctx, 1, it.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, "Oat Milk", got.Name)
	assert.True(t, got.Quantity.Equal(decimal.RequireFromString("0.75")))
	assert.Nil(t, got.ExpiresAt)
	assert.Equal(t, it.CreatedAt, got.CreatedAt)

	_, err = s.UpdateItem(ctx, 2, it.ID, upd)
	assert.ErrorIs(t, err, core.ErrItemNotFound)

	require.NoError(t, s.DeleteItem(ctx, 1, it.ID))
	assert.ErrorIs(t, s.DeleteItem(ctx, 1, it.ID), core.ErrItemNotFound)
	_, err = s.GetItem(ctx, 1, it.ID)
	assert.ErrorIs(t, err, core.ErrItemNotFound)
}

func TestStore_RejectsInvalidInput(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateItem(context.Background(), 1, input("", core.CategoryFruits, ""))
	assert.ErrorIs(t, err, core.ErrInvalidItem)
}

func TestStore_MalformedDatesAreFlagged(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.db.Exec(`INSERT INTO food_items (user_id, name, category, quantity, expired_date, created_at)
		VALUES (1, 'Mystery Jar', 'Protein', '1', 'someday', 'last week')`)
	require.NoError(t, err)

	items, err := s.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].MalformedCreatedAt)
	assert.True(t, items[0].MalformedExpiresAt)
	assert.Nil(t, items[0].ExpiresAt)
	assert.Equal(t, core.NoExpiry, core.ClassifyItem(items[0], time.Now()).Kind)
}
