// seed fills a user's inventory with demo items spread across every freshness
// status. Expiry dates are relative to today.
//
// Usage: go run ./cmd/seed [--sqlite path] [--user 1] [--reset]
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"frigora/internal/config"
	"frigora/internal/core"
	"frigora/internal/db"
	"frigora/internal/logging"
	"frigora/internal/store/sqlite"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

// demoItem expires expiresIn days from today; nil means no expiry.
type demoItem struct {
	name      string
	category  core.Category
	quantity  string
	unit      string
	location  string
	expiresIn *int
}

func days(n int) *int { return &n }

var demoItems = []demoItem{
	{"Chicken Breast", core.CategoryProtein, "1.5", "kg", "Freezer", days(20)},
	{"Salmon Fillet", core.CategoryProtein, "2", "pcs", "Fridge", days(-2)},
	{"Eggs", core.CategoryProtein, "12", "pcs", "Fridge", days(5)},
	{"Spinach", core.CategoryVegetables, "1", "pack", "Fridge", days(1)},
	{"Carrot", core.CategoryVegetables, "0.5", "kg", "Fridge", days(14)},
	{"Apple", core.CategoryFruits, "6", "pcs", "Counter", days(7)},
	{"Banana", core.CategoryFruits, "4", "pcs", "Counter", days(0)},
	{"Pizza Slices", core.CategoryFastFood, "3", "pcs", "Fridge", days(-5)},
	{"Burger Patties", core.CategoryFrozenFood, "8", "pcs", "Freezer", days(60)},
	{"Ice Cream", core.CategoryFrozenFood, "1", "box", "Freezer", nil},
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	sqlitePath := pflag.String("sqlite", cfg.Database.SQLitePath, "seed a SQLite file instead of Postgres")
	userID := pflag.Int64("user", 1, "owner user id")
	reset := pflag.Bool("reset", false, "delete the user's existing items first")
	pflag.Parse()

	ctx := context.Background()
	store, release, err := open(ctx, cfg, *sqlitePath)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer release()

	if err := seed(ctx, store, *userID, *reset, cfg.Freshness.Location(), logger); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seed data restored", "user_id", *userID, "items", len(demoItems))
}

func open(ctx context.Context, cfg config.Config, sqlitePath string) (core.InventoryStore, func(), error) {
	loc := cfg.Freshness.Location()
	if sqlitePath != "" {
		s, err := sqlite.New(sqlitePath, loc)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}
	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return core.NewInventoryService(pool, loc), pool.Close, nil
}

func seed(ctx context.Context, store core.InventoryStore, userID int64, reset bool, loc *time.Location, logger *slog.Logger) error {
	if reset {
		existing, err := store.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, it := range existing {
			if err := store.DeleteItem(ctx, userID, it.ID); err != nil {
				return err
			}
		}
		logger.Info("cleared existing items", "count", len(existing))
	}

	y, m, d := time.Now().In(loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	for _, demo := range demoItems {
		qty, err := decimal.NewFromString(demo.quantity)
		if err != nil {
			return fmt.Errorf("demo item %s: %w", demo.name, err)
		}
		in := core.ItemInput{
			Name:     demo.name,
			Category: demo.category,
			Quantity: qty,
			Unit:     demo.unit,
			Location: demo.location,
		}
		if demo.expiresIn != nil {
			exp := today.AddDate(0, 0, *demo.expiresIn)
			in.ExpiresAt = &exp
		}
		if _, err := store.CreateItem(ctx, userID, in); err != nil {
			return fmt.Errorf("failed to insert %s: %w", demo.name, err)
		}
	}
	return nil
}
