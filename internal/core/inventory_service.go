package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// InventoryStore is the persistence boundary for food items. Every operation is
// scoped to the owning user; an item of another user is reported as not found.
type InventoryStore interface {
	// ListByUser returns all of a user's items ordered by created_at, then id.
	ListByUser(ctx context.Context, userID int64) ([]Item, error)
	// Search returns the user's items whose name contains term, case-insensitively.
	Search(ctx context.Context, userID int64, term string) ([]Item, error)
	GetItem(ctx context.Context, userID, id int64) (*Item, error)
	CreateItem(ctx context.Context, userID int64, in ItemInput) (*Item, error)
	UpdateItem(ctx context.Context, userID, id int64, in ItemInput) (*Item, error)
	DeleteItem(ctx context.Context, userID, id int64) error
}

type inventoryService struct {
	pool *pgxpool.Pool
	loc  *time.Location
	sb   sq.StatementBuilderType
}

// NewInventoryService returns the Postgres-backed store. Date-only values are read in loc.
func NewInventoryService(pool *pgxpool.Pool, loc *time.Location) InventoryStore {
	if loc == nil {
		loc = time.UTC
	}
	return &inventoryService{
		pool: pool,
		loc:  loc,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Dates come back as text and are parsed leniently so one bad row cannot fail a listing.
var itemColumns = []string{
	"id", "user_id", "name", "category", "quantity", "unit", "location",
	"COALESCE(expired_date::text, '')", "created_at::text",
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *inventoryService) ListByUser(ctx context.Context, userID int64) ([]Item, error) {
	q := s.sb.Select(itemColumns...).
		From("food_items").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at ASC", "id ASC")
	return s.queryItems(ctx, q)
}

func (s *inventoryService) Search(ctx context.Context, userID int64, term string) ([]Item, error) {
	q := s.sb.Select(itemColumns...).
		From("food_items").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.ILike{"name": "%" + EscapeLike(strings.TrimSpace(term)) + "%"}).
		OrderBy("created_at ASC", "id ASC")
	return s.queryItems(ctx, q)
}

func (s *inventoryService) GetItem(ctx context.Context, userID, id int64) (*Item, error) {
	query, args, err := s.sb.Select(itemColumns...).
		From("food_items").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build item query: %w", err)
	}
	it, err := s.scanItem(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %d: %w", id, ErrItemNotFound)
		}
		return nil, fmt.Errorf("failed to get item %d: %w", id, err)
	}
	return it, nil
}

func (s *inventoryService) queryItems(ctx context.Context, q sq.SelectBuilder) ([]Item, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build inventory query: %w", err)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := s.scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inventory rows: %w", err)
	}
	return items, nil
}

func (s *inventoryService) scanItem(row pgx.Row) (*Item, error) {
	var (
		it                 Item
		category           string
		qty                decimal.Decimal
		expires, createdAt string
	)
	if err := row.Scan(&it.ID, &it.UserID, &it.Name, &category, &qty, &it.Unit, &it.Location, &expires, &createdAt); err != nil {
		return nil, err
	}
	it.Category = Category(category)
	it.Quantity = qty
	ApplyStoredDates(&it, createdAt, expires, s.loc)
	return &it, nil
}

// ApplyStoredDates parses persisted date strings, flagging rather than failing on bad values.
func ApplyStoredDates(it *Item, createdAt, expires string, loc *time.Location) {
	if t, err := ParseItemDate(createdAt, loc); err == nil {
		it.CreatedAt = t
	} else {
		it.MalformedCreatedAt = true
	}
	it.ExpiresAt, it.MalformedExpiresAt = ParseOptionalDate(expires, loc)
}

// ── Writes ────────────────────────────────────────────────────────────────────

func (s *inventoryService) CreateItem(ctx context.Context, userID int64, in ItemInput) (*Item, error) {
	if err := ValidateItemInput(in); err != nil {
		return nil, err
	}
	query, args, err := s.sb.Insert("food_items").
		Columns("user_id", "name", "category", "quantity", "unit", "location", "expired_date").
		Values(userID, in.Name, string(in.Category), in.Quantity, in.Unit, in.Location, ExpiryArg(in.ExpiresAt)).
		Suffix("RETURNING " + strings.Join(itemColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert: %w", err)
	}
	it, err := s.scanItem(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return it, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, userID, id int64, in ItemInput) (*Item, error) {
	if err := ValidateItemInput(in); err != nil {
		return nil, err
	}
	query, args, err := s.sb.Update("food_items").
		SetMap(map[string]any{
			"name":         in.Name,
			"category":     string(in.Category),
			"quantity":     in.Quantity,
			"unit":         in.Unit,
			"location":     in.Location,
			"expired_date": ExpiryArg(in.ExpiresAt),
		}).
		Where(sq.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING " + strings.Join(itemColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update: %w", err)
	}
	it, err := s.scanItem(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %d: %w", id, ErrItemNotFound)
		}
		return nil, fmt.Errorf("failed to update item %d: %w", id, err)
	}
	return it, nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, userID, id int64) error {
	query, args, err := s.sb.Delete("food_items").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete item %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %d: %w", id, ErrItemNotFound)
	}
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// ValidateItemInput enforces the store-level invariants shared by every backend.
func ValidateItemInput(in ItemInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if !in.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidItem, in.Category)
	}
	if in.Quantity.IsNegative() {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidItem)
	}
	return nil
}

// ExpiryArg converts an optional expiry into a SQL DATE argument.
func ExpiryArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(ISODate)
}

// EscapeLike escapes LIKE wildcards so term matches literally; backslash is the escape character.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
