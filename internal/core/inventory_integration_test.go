package core_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"frigora/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database; the seed below truncates food_items.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE food_items RESTART IDENTITY;

		INSERT INTO food_items (user_id, name, category, quantity, unit, location, expired_date, created_at) VALUES
		(1, 'Chicken Breast', 'Protein',     1.5, 'kg',   'Freezer', '2025-06-20', '2025-06-01 09:00:00+00'),
		(1, 'Spinach',        'Vegetables',  2,   'pack', 'Fridge',  '2025-06-03', '2025-06-02 09:00:00+00'),
		(1, 'Rice',           'Protein',     5,   'kg',   'Pantry',  NULL,         '2025-05-20 09:00:00+00'),
		(2, 'Chicken Wings',  'Protein',     1,   'kg',   'Freezer', '2025-06-10', '2025-06-01 09:00:00+00');
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func TestInventoryStore_ListByUser(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	store := core.NewInventoryService(pool, time.UTC)
	ctx := context.Background()

	items, err := store.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items for user 1, got %d", len(items))
	}
	// Ordered by created_at ascending.
	if items[0].Name != "Rice" {
		t.Errorf("expected Rice first, got %s", items[0].Name)
	}
	if items[0].ExpiresAt != nil {
		t.Errorf("expected Rice to have no expiry, got %v", items[0].ExpiresAt)
	}
	if !items[1].Quantity.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("expected quantity 1.5, got %s", items[1].Quantity)
	}
	for _, it := range items {
		if it.MalformedCreatedAt || it.MalformedExpiresAt {
			t.Errorf("item %s unexpectedly flagged malformed", it.Name)
		}
	}
}

func TestInventoryStore_SearchIsCaseInsensitiveAndScoped(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	store := core.NewInventoryService(pool, time.UTC)
	ctx := context.Background()

	items, err := store.Search(ctx, 1, "CHICKEN")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Chicken Breast" {
		t.Fatalf("expected only user 1's Chicken Breast, got %+v", items)
	}

	none, err := store.Search(ctx, 1, "100%")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no matches for a literal percent, got %d", len(none))
	}
}

func TestInventoryStore_CRUD(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	store := core.NewInventoryService(pool, time.UTC)
	ctx := context.Background()

	exp := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	created, err := store.CreateItem(ctx, 1, core.ItemInput{
		Name:      "Apples",
		Category:  core.CategoryFruits,
		Quantity:  decimal.NewFromInt(6),
		Unit:      "pcs",
		Location:  "Fridge",
		ExpiresAt: &exp,
	})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if created.ID == 0 || created.CreatedAt.IsZero() {
		t.Fatalf("expected server-assigned id and created_at, got %+v", created)
	}
	if created.ExpiresAt == nil || created.ExpiresAt.Format(core.ISODate) != "2025-07-01" {
		t.Errorf("expected expiry 2025-07-01, got %v", created.ExpiresAt)
	}

	updated, err := store.UpdateItem(ctx, 1, created.ID, core.ItemInput{
		Name:     "Green Apples",
		Category: core.CategoryFruits,
		Quantity: decimal.NewFromInt(4),
		Unit:     "pcs",
		Location: "Fridge",
	})
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if updated.Name != "Green Apples" || updated.ExpiresAt != nil {
		t.Errorf("unexpected update result: %+v", updated)
	}

	if _, err := store.UpdateItem(ctx, 2, created.ID, core.ItemInput{Name: "x", Category: core.CategoryFruits}); !errors.Is(err, core.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound when updating another user's item, got %v", err)
	}

	if err := store.DeleteItem(ctx, 1, created.ID); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}
	if _, err := store.GetItem(ctx, 1, created.ID); !errors.Is(err, core.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound after delete, got %v", err)
	}
	if err := store.DeleteItem(ctx, 1, created.ID); !errors.Is(err, core.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound on second delete, got %v", err)
	}
}

func TestInventoryStore_CreateRejectsInvalidInput(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	store := core.NewInventoryService(pool, time.UTC)

	_, err := store.CreateItem(context.Background(), 1, core.ItemInput{
		Name:     "Mystery",
		Category: core.Category("protein"),
		Quantity: decimal.NewFromInt(1),
	})
	if !errors.Is(err, core.ErrInvalidItem) {
		t.Fatalf("expected ErrInvalidItem for lowercase category, got %v", err)
	}
}
