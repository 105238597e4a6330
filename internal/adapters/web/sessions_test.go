package web

import (
	"testing"
	"time"

	"frigora/internal/core"

	"github.com/stretchr/testify/assert"
)

func TestSessionStore_AcquireReusesUntilIdle(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	s := newSessionStore(time.Hour)
	s.now = func() time.Time { return now }

	first := s.acquire("tok", 1)
	first.session.Replace(core.NewLoad(core.FullListingSource(), nil, now))

	now = now.Add(30 * time.Minute)
	assert.Same(t, first, s.acquire("tok", 1))

	now = now.Add(2 * time.Hour)
	fresh := s.acquire("tok", 1)
	assert.NotSame(t, first, fresh)
	assert.Nil(t, fresh.session.Load)
}

func TestSessionStore_PurgeAndDrop(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	s := newSessionStore(time.Hour)
	s.now = func() time.Time { return now }

	s.acquire("a", 1)
	b := s.acquire("b", 2)
	b.session.Criteria.ToggleCategory(core.CategoryFruits)

	s.drop("b")
	assert.Equal(t, 1, s.len())
	assert.Empty(t, b.session.Criteria.Category)

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, s.purgeExpired())
	assert.Zero(t, s.len())
}
