package broker

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/avvvet/chip-services/internal/chipsvc/service"
	"github.com/avvvet/chip-services/internal/chipsvc/store"
	"github.com/avvvet/chip-services/internal/comm"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(t *testing.T, typ string, data interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	b, err := json.Marshal(comm.Message{Type: typ, Data: raw, RequestID: "req-1"})
	require.NoError(t, err)
	return b
}

func setup(t *testing.T) (*Broker, string, string) {
	t.Helper()
	ctx := context.Background()
	gw := store.NewGateway(store.NewMemoryStore())
	sessions := service.NewSessionService(gw, time.Second)
	players := service.NewPlayerService(gw, time.Second)
	stats := service.NewStatsService(gw, time.Second, 2)

	s, _, err := sessions.CreateSession(ctx, "Game", "user-1", []models.ChipColor{
		{Color: models.Red, Value: decimal.RequireFromString("0.50")},
	})
	require.NoError(t, err)
	p, err := players.CreatePlayer(ctx, s.ID, "Ann", decimal.NewFromInt(1))
	require.NoError(t, err)

	return NewBroker(nil, players, stats, time.Second), s.ID, p.ID
}

func TestDispatchSaveCountsThenStats(t *testing.T) {
	b, sessionID, playerID := setup(t)
	ctx := context.Background()

	reply := b.dispatch(ctx, message(t, comm.TypeSaveChipCounts, comm.ChipCountsUpdate{
		PlayerID: playerID,
		Counts:   []models.ChipCount{{Color: models.Red, Count: 6}},
	}))
	require.Equal(t, http.StatusOK, reply.Code, reply.Error)
	assert.Equal(t, "save-chip-counts-response", reply.Type)
	assert.Equal(t, "req-1", reply.RequestID)

	reply = b.dispatch(ctx, message(t, comm.TypeUpdateBuyIn, comm.BuyInUpdate{
		PlayerID: playerID,
		BuyIn:    decimal.RequireFromString("2.25"),
	}))
	require.Equal(t, http.StatusOK, reply.Code, reply.Error)

	reply = b.dispatch(ctx, message(t, comm.TypeGetSessionStats, comm.SessionStatsRequest{SessionID: sessionID}))
	require.Equal(t, http.StatusOK, reply.Code, reply.Error)
	rows, ok := reply.Data.([]comm.StatsRow)
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, "3.00", rows[0].ChipValue)
	assert.Equal(t, "2.25", rows[0].BuyIn)
	assert.Equal(t, "0.75", rows[0].NetProfit)
}

func TestDispatchErrors(t *testing.T) {
	b, _, _ := setup(t)
	ctx := context.Background()

	reply := b.dispatch(ctx, []byte("not json"))
	assert.Equal(t, http.StatusBadRequest, reply.Code)

	reply = b.dispatch(ctx, message(t, "shuffle-deck", struct{}{}))
	assert.Equal(t, http.StatusBadRequest, reply.Code)

	reply = b.dispatch(ctx, message(t, comm.TypeUpdateBuyIn, comm.BuyInUpdate{PlayerID: "missing"}))
	assert.Equal(t, http.StatusNotFound, reply.Code)
	assert.Equal(t, "Player not found", reply.Message)

	reply = b.dispatch(ctx, message(t, comm.TypeSaveChipCounts, comm.ChipCountsUpdate{
		PlayerID: "missing",
		Counts:   []models.ChipCount{{Color: "gold", Count: 1}},
	}))
	assert.Equal(t, http.StatusBadRequest, reply.Code)
}
