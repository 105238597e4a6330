package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"frigora/internal/core"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

//go:embed schema.sql
var schema string

// createdAtLayout is fixed-width so that text ordering matches time ordering.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

var itemColumns = []string{
	"id", "user_id", "name", "category", "quantity", "unit", "location",
	"COALESCE(expired_date, '')", "created_at",
}

// Store is a single-file inventory store used by the CLI. It implements core.InventoryStore.
type Store struct {
	db  *sql.DB
	loc *time.Location
	sb  sq.StatementBuilderType
	now func() time.Time
}

var _ core.InventoryStore = (*Store)(nil)

// New opens (or creates) the database at path and initialises the schema.
func New(path string, loc *time.Location) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer; avoids SQLITE_BUSY between the pool's connections.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Store{db: db, loc: loc, sb: sq.StatementBuilder, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListByUser(ctx context.Context, userID int64) ([]core.Item, error) {
	q := s.sb.Select(itemColumns...).
		From("food_items").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at ASC", "id ASC")
	return s.queryItems(ctx, q)
}

func (s *Store) Search(ctx context.Context, userID int64, term string) ([]core.Item, error) {
	pattern := "%" + core.EscapeLike(strings.ToLower(strings.TrimSpace(term))) + "%"
	q := s.sb.Select(itemColumns...).
		From("food_items").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Expr(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)).
		OrderBy("created_at ASC", "id ASC")
	return s.queryItems(ctx, q)
}

func (s *Store) GetItem(ctx context.Context, userID, id int64) (*core.Item, error) {
	query, args, err := s.sb.Select(itemColumns...).
		From("food_items").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get: %w", err)
	}
	it, err := s.scanItem(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("item %d: %w", id, core.ErrItemNotFound)
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

func (s *Store) CreateItem(ctx context.Context, userID int64, in core.ItemInput) (*core.Item, error) {
	if err := core.ValidateItemInput(in); err != nil {
		return nil, err
	}
	createdAt := s.now().UTC().Format(createdAtLayout)
	query, args, err := s.sb.Insert("food_items").
		Columns("user_id", "name", "category", "quantity", "unit", "location", "expired_date", "created_at").
		Values(userID, in.Name, string(in.Category), in.Quantity.String(), in.Unit, in.Location, core.ExpiryArg(in.ExpiresAt), createdAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return s.GetItem(ctx, userID, id)
}

func (s *Store) UpdateItem(ctx context.Context, userID, id int64, in core.ItemInput) (*core.Item, error) {
	if err := core.ValidateItemInput(in); err != nil {
		return nil, err
	}
	query, args, err := s.sb.Update("food_items").
		SetMap(map[string]any{
			"name":         in.Name,
			"category":     string(in.Category),
			"quantity":     in.Quantity.String(),
			"unit":         in.Unit,
			"location":     in.Location,
			"expired_date": core.ExpiryArg(in.ExpiresAt),
		}).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("item %d: %w", id, core.ErrItemNotFound)
	}
	return s.GetItem(ctx, userID, id)
}

func (s *Store) DeleteItem(ctx context.Context, userID, id int64) error {
	query, args, err := s.sb.Delete("food_items").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("item %d: %w", id, core.ErrItemNotFound)
	}
	return nil
}

func (s *Store) queryItems(ctx context.Context, q sq.SelectBuilder) ([]core.Item, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []core.Item
	for rows.Next() {
		it, err := s.scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanItem(row scanner) (*core.Item, error) {
	var (
		it                 core.Item
		category           string
		qty                decimal.Decimal
		expires, createdAt string
	)
	if err := row.Scan(&it.ID, &it.UserID, &it.Name, &category, &qty, &it.Unit, &it.Location, &expires, &createdAt); err != nil {
		return nil, err
	}
	it.Category = core.Category(category)
	it.Quantity = qty
	core.ApplyStoredDates(&it, createdAt, expires, s.loc)
	return &it, nil
}
