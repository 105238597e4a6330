package core

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SourceKind string

const (
	FullListing  SourceKind = "full_listing"
	SearchResult SourceKind = "search_result"
)

// Source selects where the working collection comes from. A search replaces the
// collection with the store's matches; an empty match set is still a valid collection.
type Source struct {
	Kind SourceKind `json:"kind"`
	Term string     `json:"term,omitempty"`
}

func FullListingSource() Source {
	return Source{Kind: FullListing}
}

func SearchSource(term string) Source {
	return Source{Kind: SearchResult, Term: term}
}

func (s Source) IsSearch() bool {
	return s.Kind == SearchResult
}

// Matches reports whether name belongs to the source, using the stores'
// case-insensitive substring match. Every name matches a full listing.
func (s Source) Matches(name string) bool {
	if !s.IsSearch() {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(strings.TrimSpace(s.Term)))
}

// Load is one fetch-or-search of a user's inventory together with its own
// notification batch.
type Load struct {
	ID       string    `json:"id"`
	Source   Source    `json:"source"`
	Items    []Item    `json:"items"`
	LoadedAt time.Time `json:"loaded_at"`

	batch *NotificationBatch
}

func NewLoad(src Source, items []Item, loadedAt time.Time) *Load {
	return &Load{
		ID:       uuid.NewString(),
		Source:   src,
		Items:    slices.Clone(items),
		LoadedAt: loadedAt,
		batch:    NewNotificationBatch(),
	}
}

// NotifyIfNeeded runs the load's batch over its current items.
func (l *Load) NotifyIfNeeded(now time.Time) AlertSet {
	return l.batch.NotifyIfNeeded(l.Items, now)
}

func (l *Load) Notified() bool {
	return l.batch.Notified()
}

// ApplyDelete removes the item acknowledged as deleted by the store.
func (l *Load) ApplyDelete(id int64) bool {
	n := len(l.Items)
	l.Items = slices.DeleteFunc(l.Items, func(it Item) bool { return it.ID == id })
	return len(l.Items) != n
}

// ApplyUpdate replaces the stored copy of an updated item, if the load holds it.
// On a search load an item renamed out of the term is dropped instead.
func (l *Load) ApplyUpdate(it Item) bool {
	i := slices.IndexFunc(l.Items, func(x Item) bool { return x.ID == it.ID })
	if i < 0 {
		return false
	}
	if !l.Source.Matches(it.Name) {
		l.Items = slices.Delete(l.Items, i, i+1)
		return true
	}
	l.Items[i] = it
	return true
}

// ApplyCreate appends a newly created item to full-listing loads. Search loads
// are left alone; the match set belongs to the store.
func (l *Load) ApplyCreate(it Item) bool {
	if l.Source.IsSearch() {
		return false
	}
	l.Items = append(l.Items, it)
	return true
}

// Session is the per-user working state: the selected source, the listing
// criteria and the current load. It is not safe for concurrent use.
type Session struct {
	UserID    int64
	CreatedAt time.Time
	Source    Source
	Criteria  Criteria
	Load      *Load
}

func NewSession(userID int64, now time.Time) *Session {
	return &Session{UserID: userID, CreatedAt: now, Source: FullListingSource()}
}

// Replace installs a new load, discarding the previous one and its batch.
func (s *Session) Replace(l *Load) {
	s.Load = l
	s.Source = l.Source
}

// CurrentLoad returns the active load or ErrNoActiveLoad.
func (s *Session) CurrentLoad() (*Load, error) {
	if s.Load == nil {
		return nil, ErrNoActiveLoad
	}
	return s.Load, nil
}

// Clear drops everything derived for the user, as at logout.
func (s *Session) Clear() {
	s.Load = nil
	s.Source = FullListingSource()
	s.Criteria = Criteria{}
}
