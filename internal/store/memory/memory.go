// Package memory is an in-process inventory store used by tests and demos.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"frigora/internal/core"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]core.Item
	now    func() time.Time

	// Err, when set, is returned by every call.
	Err error
}

var _ core.InventoryStore = (*Store)(nil)

func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{items: make(map[int64]core.Item), now: now}
}

// Seed inserts items verbatim, keeping their IDs and timestamps.
func (s *Store) Seed(items ...core.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		s.items[it.ID] = it
		s.nextID = max(s.nextID, it.ID)
	}
}

func (s *Store) ListByUser(ctx context.Context, userID int64) ([]core.Item, error) {
	return s.filter(userID, func(core.Item) bool { return true })
}

func (s *Store) Search(ctx context.Context, userID int64, term string) ([]core.Item, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	return s.filter(userID, func(it core.Item) bool {
		return strings.Contains(strings.ToLower(it.Name), term)
	})
}

func (s *Store) filter(userID int64, keep func(core.Item) bool) ([]core.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []core.Item
	for _, it := range s.items {
		if it.UserID == userID && keep(it) {
			out = append(out, it)
		}
	}
	slices.SortFunc(out, func(a, b core.Item) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})
	return out, nil
}

func (s *Store) GetItem(ctx context.Context, userID, id int64) (*core.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	it, ok := s.items[id]
	if !ok || it.UserID != userID {
		return nil, fmt.Errorf("item %d: %w", id, core.ErrItemNotFound)
	}
	return &it, nil
}

func (s *Store) CreateItem(ctx context.Context, userID int64, in core.ItemInput) (*core.Item, error) {
	if err := core.ValidateItemInput(in); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.nextID++
	it := apply(core.Item{ID: s.nextID, UserID: userID, CreatedAt: s.now()}, in)
	s.items[it.ID] = it
	return &it, nil
}

func (s *Store) UpdateItem(ctx context.Context, userID, id int64, in core.ItemInput) (*core.Item, error) {
	if err := core.ValidateItemInput(in); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	it, ok := s.items[id]
	if !ok || it.UserID != userID {
		return nil, fmt.Errorf("item %d: %w", id, core.ErrItemNotFound)
	}
	it = apply(it, in)
	s.items[id] = it
	return &it, nil
}

func (s *Store) DeleteItem(ctx context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	it, ok := s.items[id]
	if !ok || it.UserID != userID {
		return fmt.Errorf("item %d: %w", id, core.ErrItemNotFound)
	}
	delete(s.items, id)
	return nil
}

func apply(it core.Item, in core.ItemInput) core.Item {
	it.Name = in.Name
	it.Category = in.Category
	it.Quantity = in.Quantity
	it.Unit = in.Unit
	it.Location = in.Location
	it.ExpiresAt = in.ExpiresAt
	it.MalformedExpiresAt = false
	return it
}
