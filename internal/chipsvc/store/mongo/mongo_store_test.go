package mongo

import (
	"context"
	"os"
	"testing"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/avvvet/chip-services/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimal128RoundTrip(t *testing.T) {
	for _, s := range []string{"0", "0.50", "-12.25", "1000000.01"} {
		d := decimal.RequireFromString(s)
		v, err := toDecimal128(d)
		require.NoError(t, err)
		back, err := fromDecimal128(v)
		require.NoError(t, err)
		assert.True(t, d.Equal(back), s)
	}
}

// TestGatewayRoundTrip needs a disposable database in MONGODB_TEST_URI.
func TestGatewayRoundTrip(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx := context.Background()

	database, err := db.ConnectToDB(ctx, uri)
	require.NoError(t, err)
	s := NewStore(database)
	require.NoError(t, s.EnsureIndexes(ctx))
	gw := NewGateway(database, func() { db.Disconnect(database) })
	defer gw.Shutdown()

	sid, err := gw.Sessions.CreateSession(ctx, &models.Session{Title: "mongo game", OwnerUserID: "u1"})
	require.NoError(t, err)
	defer gw.Sessions.DeleteSession(ctx, sid)

	pid, err := gw.Players.CreatePlayer(ctx, &models.Player{SessionID: sid, Name: "Ann", BuyIn: decimal.RequireFromString("5.50")})
	require.NoError(t, err)

	p, err := gw.Players.GetPlayer(ctx, pid)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "5.50", p.BuyIn.StringFixed(2))

	require.NoError(t, gw.ChipCounts.ReplaceChipCounts(ctx, pid, []models.ChipCount{
		{Color: models.Red, Count: 2},
		{Color: models.Black, Count: 1},
	}))
	require.NoError(t, gw.ChipCounts.ReplaceChipCounts(ctx, pid, []models.ChipCount{{Color: models.Red, Count: 2}}))
	counts, err := gw.ChipCounts.ListChipCounts(ctx, pid)
	require.NoError(t, err)
	assert.Len(t, counts, 1)

	require.NoError(t, gw.Participants.AddParticipant(ctx, sid, "u1"))
	require.NoError(t, gw.Participants.AddParticipant(ctx, sid, "u1"))
	participants, err := gw.Participants.ListParticipants(ctx, sid)
	require.NoError(t, err)
	assert.Len(t, participants, 1)

	missing, err := gw.Sessions.GetSession(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
