package service

import (
	"context"
	"testing"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePlayerNeedsNameAndSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.session(t)

	_, err := f.players.CreatePlayer(ctx, s.ID, "", dec("5"))
	v, ok := IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, MsgEnterName, v.Message)

	_, err = f.players.CreatePlayer(ctx, "missing", "Ann", dec("5"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceChipCountsLeavesNoStaleColors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.session(t)
	p := f.player(t, s.ID, "Ann", "5")

	_, err := f.players.ReplaceChipCounts(ctx, p.ID, []models.ChipCount{
		{Color: models.Red, Count: 2},
		{Color: models.Black, Count: 1},
	})
	require.NoError(t, err)

	_, err = f.players.ReplaceChipCounts(ctx, p.ID, []models.ChipCount{{Color: models.Red, Count: 2}})
	require.NoError(t, err)

	counts, err := f.players.ChipCounts(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, models.Red, counts[0].Color)
	assert.EqualValues(t, 2, counts[0].Count)
}

func TestReplaceChipCountsKeepsLastDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.session(t)
	p := f.player(t, s.ID, "Ann", "5")

	saved, err := f.players.ReplaceChipCounts(ctx, p.ID, []models.ChipCount{
		{Color: models.Red, Count: 2},
		{Color: models.Red, Count: -1},
	})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.EqualValues(t, -1, saved[0].Count)

	_, err = f.players.ReplaceChipCounts(ctx, p.ID, []models.ChipCount{{Color: "gold", Count: 1}})
	_, ok := IsValidation(err)
	assert.True(t, ok)
}

func TestUpdateBuyInAcceptsNegative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.session(t)
	p := f.player(t, s.ID, "Ann", "5")

	updated, err := f.players.UpdateBuyIn(ctx, p.ID, dec("-2.50"))
	require.NoError(t, err)
	assert.True(t, dec("-2.50").Equal(updated.BuyIn))

	_, err = f.players.UpdateBuyIn(ctx, "missing", dec("1"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreFailureIsReported(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.session(t)
	p := f.player(t, s.ID, "Ann", "5")

	f.backend.failReplace = true
	_, err := f.players.ReplaceChipCounts(ctx, p.ID, []models.ChipCount{{Color: models.Red, Count: 1}})
	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, errBackend)
}

func TestDeletePlayer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.session(t)
	p := f.player(t, s.ID, "Ann", "5")

	require.NoError(t, f.players.DeletePlayer(ctx, p.ID))
	players, err := f.players.ListPlayers(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, players)
	assert.ErrorIs(t, f.players.DeletePlayer(ctx, p.ID), ErrNotFound)
}
