package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"frigora/internal/config"
	"frigora/internal/db"
	"frigora/internal/logging"
	"frigora/migrations"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const advisoryLockID = 7462839

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, cfg.Database, migrations.FS, logger); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}
	logger.Info("[DONE] all migrations processed")
}

func run(ctx context.Context, dbCfg config.DatabaseConfig, files fs.FS, logger *slog.Logger) error {
	pool, err := db.NewPool(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("[CONNECT] %w", err)
	}
	defer pool.Close()
	logger.Info("[CONNECT] success")

	conn, err := acquireLock(ctx, pool)
	if err != nil {
		return err
	}
	defer conn.Release()
	logger.Info("[LOCK] success")

	if err := setupSchemaMigrations(ctx, pool); err != nil {
		return err
	}

	names, err := discoverMigrations(files)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := applyMigration(ctx, pool, files, name, logger); err != nil {
			return err
		}
	}
	return nil
}

// acquireLock holds a session-level advisory lock on its connection until release.
func acquireLock(ctx context.Context, pool *pgxpool.Pool) (*pgxpool.Conn, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("[LOCK] failed to acquire connection: %w", err)
	}
	var locked bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", advisoryLockID).Scan(&locked); err != nil {
		conn.Release()
		return nil, fmt.Errorf("[LOCK] failed to query advisory lock: %w", err)
	}
	if !locked {
		conn.Release()
		return nil, errors.New("[LOCK] another migrator is currently running")
	}
	return conn, nil
}

func setupSchemaMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

// discoverMigrations lists the .sql files in order, rejecting duplicate versions.
func discoverMigrations(files fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("[DISCOVER] failed to read migrations: %w", err)
	}

	var names []string
	seen := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, err := extractVersion(entry.Name())
		if err != nil {
			return nil, err
		}
		if seen[version] {
			return nil, fmt.Errorf("[DISCOVER] duplicate version %s", version)
		}
		seen[version] = true
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func extractVersion(filename string) (string, error) {
	version, _, ok := strings.Cut(filename, "_")
	if !ok || version == "" {
		return "", fmt.Errorf("[DISCOVER] invalid migration filename %s, expected NNN_description.sql", filename)
	}
	return version, nil
}

func checksum(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, files fs.FS, name string, logger *slog.Logger) error {
	version, err := extractVersion(name)
	if err != nil {
		return err
	}
	body, err := fs.ReadFile(files, name)
	if err != nil {
		return fmt.Errorf("failed to read migration %s: %w", name, err)
	}
	sum := checksum(body)

	var existing string
	err = pool.QueryRow(ctx, "SELECT checksum FROM schema_migrations WHERE version = $1", version).Scan(&existing)
	switch {
	case err == nil:
		if existing != sum {
			return fmt.Errorf("checksum mismatch for %s: recorded %s, file %s", name, existing, sum)
		}
		logger.Info("[SKIP] " + name)
		return nil
	case !errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("failed to query schema_migrations for %s: %w", name, err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %s: %w", name, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(body)); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", name, err)
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version, filename, checksum) VALUES ($1, $2, $3)",
		version, name, sum); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", name, err)
	}

	logger.Info("[APPLY] " + name)
	return nil
}
