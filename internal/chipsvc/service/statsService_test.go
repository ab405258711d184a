package service

import (
	"context"
	"testing"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsForSessionWithoutPlayers(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)

	stats, err := f.stats.GetSessionStats(context.Background(), s.ID)
	require.NoError(t, err)
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}

func TestStatsComputeValueAndProfit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.session(t)

	ann := f.player(t, s.ID, "Ann", "5")
	bob := f.player(t, s.ID, "Bob", "2")
	_, err := f.players.ReplaceChipCounts(ctx, ann.ID, []models.ChipCount{
		{Color: models.Red, Count: 4},
		{Color: models.Black, Count: 1},
	})
	require.NoError(t, err)

	stats, err := f.stats.GetSessionStats(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, ann.ID, stats[0].PlayerID)
	assert.Equal(t, "3.00", stats[0].ChipValue.StringFixed(2))
	assert.Equal(t, "-2.00", stats[0].NetProfit.StringFixed(2))
	assert.Len(t, stats[0].ChipCounts, 2)

	assert.Equal(t, bob.ID, stats[1].PlayerID)
	assert.True(t, stats[1].ChipValue.IsZero())
	assert.Equal(t, "-2.00", stats[1].NetProfit.StringFixed(2))

	chipValue, buyIn, net := Totals(stats)
	assert.Equal(t, "3.00", chipValue.StringFixed(2))
	assert.Equal(t, "7.00", buyIn.StringFixed(2))
	assert.Equal(t, "-4.00", net.StringFixed(2))
}

func TestStatsIgnoreColorsOutsideTheSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.session(t)
	p := f.player(t, s.ID, "Ann", "0")

	_, err := f.players.ReplaceChipCounts(ctx, p.ID, []models.ChipCount{
		{Color: models.Red, Count: 4},
		{Color: models.Green, Count: 10},
	})
	require.NoError(t, err)

	stats, err := f.stats.GetSessionStats(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "2.00", stats[0].ChipValue.StringFixed(2))
}

func TestStatsAbsorbPerPlayerFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.session(t)

	ann := f.player(t, s.ID, "Ann", "5")
	bob := f.player(t, s.ID, "Bob", "3")
	for _, p := range []*models.Player{ann, bob} {
		_, err := f.players.ReplaceChipCounts(ctx, p.ID, []models.ChipCount{{Color: models.Black, Count: 10}})
		require.NoError(t, err)
	}
	f.backend.failCountsFor[ann.ID] = true

	stats, err := f.stats.GetSessionStats(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, ann.ID, stats[0].PlayerID)
	assert.True(t, stats[0].ChipValue.IsZero())
	assert.Equal(t, "-5.00", stats[0].NetProfit.StringFixed(2))
	assert.Empty(t, stats[0].ChipCounts)

	assert.Equal(t, "10.00", stats[1].ChipValue.StringFixed(2))
	assert.Equal(t, "7.00", stats[1].NetProfit.StringFixed(2))
}

func TestStatsFailWhenPlayersCannotBeListed(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)
	f.backend.failListPlayers = true

	_, err := f.stats.GetSessionStats(context.Background(), s.ID)
	assert.ErrorIs(t, err, ErrStore)
}
