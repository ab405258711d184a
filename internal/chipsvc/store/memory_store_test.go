package store

import (
	"context"
	"testing"
	"time"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSessionsNewestFirst(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

	for i, title := range []string{"first", "second", "third"} {
		_, err := m.CreateSession(ctx, &models.Session{
			Title:       title,
			OwnerUserID: "user-1",
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := m.CreateSession(ctx, &models.Session{Title: "foreign", OwnerUserID: "user-2", CreatedAt: base})
	require.NoError(t, err)

	sessions, err := m.ListSessions(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "third", sessions[0].Title)
	assert.Equal(t, "first", sessions[2].Title)

	all, err := m.ListSessions(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestMemoryStoreNotFoundIsNil(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	s, err := m.GetSession(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, s)

	p, err := m.GetPlayer(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	id, err := m.CreatePlayer(ctx, &models.Player{SessionID: "s1", Name: "Ann", BuyIn: decimal.NewFromInt(5)})
	require.NoError(t, err)

	p, err := m.GetPlayer(ctx, id)
	require.NoError(t, err)
	p.Name = "changed"

	again, err := m.GetPlayer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ann", again.Name)
}

func TestMemoryStoreChipColorsUpsertByColor(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, m.SetChipColors(ctx, "s1", []models.ChipColor{
		{Color: models.Red, Value: decimal.RequireFromString("0.50"), IsActive: true},
		{Color: models.Blue, Value: decimal.Zero, IsActive: true},
	}))
	require.NoError(t, m.SetChipColors(ctx, "s1", []models.ChipColor{
		{Color: models.Red, Value: decimal.RequireFromString("0.25"), IsActive: true},
	}))

	colors, err := m.ListChipColors(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, colors, 2)
	assert.Equal(t, models.Red, colors[0].Color)
	assert.Equal(t, "0.25", colors[0].Value.StringFixed(2))
}

func TestMemoryStoreReplaceChipCounts(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, m.ReplaceChipCounts(ctx, "p1", []models.ChipCount{
		{Color: models.Red, Count: 2},
		{Color: models.Black, Count: 1},
	}))
	require.NoError(t, m.ReplaceChipCounts(ctx, "p1", []models.ChipCount{{Color: models.Red, Count: 2}}))

	counts, err := m.ListChipCounts(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, "p1", counts[0].PlayerID)
	assert.NotEmpty(t, counts[0].ID)

	require.NoError(t, m.ReplaceChipCounts(ctx, "p1", nil))
	counts, err = m.ListChipCounts(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestMemoryStoreParticipantsIdempotent(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, m.AddParticipant(ctx, "s1", "u1"))
	require.NoError(t, m.AddParticipant(ctx, "s1", "u1"))
	require.NoError(t, m.AddParticipant(ctx, "s1", "u2"))

	participants, err := m.ListParticipants(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, participants, 2)
}

func TestMemoryStoreDeleteSessionCascades(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	sid, err := m.CreateSession(ctx, &models.Session{Title: "game"})
	require.NoError(t, err)
	pid, err := m.CreatePlayer(ctx, &models.Player{SessionID: sid, Name: "Ann"})
	require.NoError(t, err)
	require.NoError(t, m.ReplaceChipCounts(ctx, pid, []models.ChipCount{{Color: models.Red, Count: 1}}))
	require.NoError(t, m.SetChipColors(ctx, sid, []models.ChipColor{{Color: models.Red}}))
	require.NoError(t, m.AddParticipant(ctx, sid, "u1"))

	require.NoError(t, m.DeleteSession(ctx, sid))

	p, err := m.GetPlayer(ctx, pid)
	require.NoError(t, err)
	assert.Nil(t, p)
	counts, _ := m.ListChipCounts(ctx, pid)
	assert.Empty(t, counts)
	colors, _ := m.ListChipColors(ctx, sid)
	assert.Empty(t, colors)
	participants, _ := m.ListParticipants(ctx, sid)
	assert.Empty(t, participants)
}

func TestMemoryStoreHonorsCancelledContext(t *testing.T) {
	m := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.CreateSession(ctx, &models.Session{Title: "late"})
	assert.ErrorIs(t, err, context.Canceled)
}
