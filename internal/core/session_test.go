package core_test

import (
	"testing"
	"time"

	"frigora/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ApplyAcknowledgments(t *testing.T) {
	now := created(2025, 6, 2, 12)
	l := core.NewLoad(core.FullListingSource(), fixtureItems(), now)
	l.NotifyIfNeeded(now)

	assert.True(t, l.ApplyDelete(2))
	assert.False(t, l.ApplyDelete(2))
	assert.Len(t, l.Items, 4)

	upd := l.Items[0]
	upd.Name = "Chicken Thigh"
	assert.True(t, l.ApplyUpdate(upd))
	assert.Equal(t, "Chicken Thigh", l.Items[0].Name)
	assert.False(t, l.ApplyUpdate(core.Item{ID: 99}))

	assert.True(t, l.ApplyCreate(core.Item{ID: 10, Name: "Kale"}))
	assert.Len(t, l.Items, 5)

	// Acknowledgments never reset the latch.
	assert.True(t, l.Notified())
}

func TestLoad_CopiesItems(t *testing.T) {
	items := fixtureItems()
	l := core.NewLoad(core.FullListingSource(), items, time.Now())
	items[0].Name = "changed"
	assert.Equal(t, "Chicken", l.Items[0].Name)
}

func TestLoad_SearchSourceIgnoresCreates(t *testing.T) {
	l := core.NewLoad(core.SearchSource("chick"), nil, time.Now())
	assert.False(t, l.ApplyCreate(core.Item{ID: 10, Name: "Chicken Wings"}))
	assert.Empty(t, l.Items)
}

func TestLoad_SearchSourceDropsRenamedOutOfTerm(t *testing.T) {
	items := []core.Item{{ID: 1, Name: "Chicken Wings"}, {ID: 2, Name: "Chicken Breast"}}
	l := core.NewLoad(core.SearchSource(" CHICK "), items, time.Now())

	still := core.Item{ID: 1, Name: "Spicy chicken wings"}
	assert.True(t, l.ApplyUpdate(still))
	assert.Equal(t, "Spicy chicken wings", l.Items[0].Name)

	assert.True(t, l.ApplyUpdate(core.Item{ID: 2, Name: "Tofu"}))
	require.Len(t, l.Items, 1)
	assert.Equal(t, int64(1), l.Items[0].ID)
}

func TestSource_Matches(t *testing.T) {
	assert.True(t, core.FullListingSource().Matches("anything"))
	assert.True(t, core.SearchSource("mil").Matches("Oat Milk"))
	assert.False(t, core.SearchSource("mil").Matches("Bread"))
}

func TestSession_Lifecycle(t *testing.T) {
	now := time.Now()
	s := core.NewSession(7, now)
	assert.Equal(t, core.FullListing, s.Source.Kind)

	_, err := s.CurrentLoad()
	assert.ErrorIs(t, err, core.ErrNoActiveLoad)

	s.Replace(core.NewLoad(core.SearchSource("milk"), nil, now))
	l, err := s.CurrentLoad()
	require.NoError(t, err)
	assert.True(t, l.Source.IsSearch())
	assert.Equal(t, "milk", s.Source.Term)

	s.Criteria.ToggleCategory(core.CategoryFruits)
	s.Clear()
	assert.Nil(t, s.Load)
	assert.Equal(t, core.FullListingSource(), s.Source)
	assert.Equal(t, core.Criteria{}, s.Criteria)
}

func TestCategories(t *testing.T) {
	cats := core.Categories()
	require.Len(t, cats, 5)
	assert.Equal(t, core.CategoryProtein, cats[0].Name)
	assert.Equal(t, "🧊", cats[4].Icon)

	_, err := core.ParseCategory("Fast Food")
	assert.NoError(t, err)
	_, err = core.ParseCategory("fast food")
	assert.ErrorIs(t, err, core.ErrUnknownCategory)
}
