package main

import (
	"context"
	"io"
	"testing"
	"time"

	"frigora/internal/core"
	"frigora/internal/logging"
	"frigora/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_CoversEveryStatus(t *testing.T) {
	store := memory.New(nil)
	store.Seed(core.Item{ID: 99, UserID: 1, Name: "Old", Category: core.CategoryFruits, CreatedAt: time.Now()})
	ctx := context.Background()

	require.NoError(t, seed(ctx, store, 1, true, time.UTC, logging.NewWithWriter(io.Discard, "error")))

	items, err := store.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, len(demoItems))

	s := core.Summarize(items, time.Now().UTC())
	assert.Positive(t, s.Good)
	assert.Positive(t, s.NearExpiry)
	assert.Positive(t, s.Expired)
	assert.Positive(t, s.NoExpiry)
}
