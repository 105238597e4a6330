package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"frigora/internal/adapters/cli"
	"frigora/internal/config"
	"frigora/internal/core"
	"frigora/internal/db"
	"frigora/internal/logging"
	"frigora/internal/store/sqlite"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := cli.Options{
		Config:    cfg,
		Logger:    logger,
		OpenStore: openStore(cfg),
	}
	if err := cli.Execute(ctx, opts, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openStore prefers a SQLite file when one is named, then Postgres.
func openStore(cfg config.Config) cli.StoreOpener {
	return func(ctx context.Context, sqlitePath string) (core.InventoryStore, func(), error) {
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
}
