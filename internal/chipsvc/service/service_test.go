package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/avvvet/chip-services/internal/chipsvc/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var errBackend = errors.New("backend unreachable")

// flakyStore fails chip count reads for selected players and can fail whole
// operations on demand.
type flakyStore struct {
	*store.MemoryStore

	mu              sync.Mutex
	failCountsFor   map[string]bool
	failColors      bool
	failReplace     bool
	failListPlayers bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: store.NewMemoryStore(), failCountsFor: map[string]bool{}}
}

func (f *flakyStore) ListChipCounts(ctx context.Context, playerID string) ([]models.ChipCount, error) {
	f.mu.Lock()
	fail := f.failCountsFor[playerID]
	f.mu.Unlock()
	if fail {
		return nil, errBackend
	}
	return f.MemoryStore.ListChipCounts(ctx, playerID)
}

func (f *flakyStore) ListChipColors(ctx context.Context, sessionID string) ([]models.ChipColor, error) {
	if f.failColors {
		return nil, errBackend
	}
	return f.MemoryStore.ListChipColors(ctx, sessionID)
}

func (f *flakyStore) ReplaceChipCounts(ctx context.Context, playerID string, counts []models.ChipCount) error {
	if f.failReplace {
		return errBackend
	}
	return f.MemoryStore.ReplaceChipCounts(ctx, playerID, counts)
}

func (f *flakyStore) ListPlayers(ctx context.Context, sessionID string) ([]*models.Player, error) {
	if f.failListPlayers {
		return nil, errBackend
	}
	return f.MemoryStore.ListPlayers(ctx, sessionID)
}

type fixture struct {
	backend  *flakyStore
	gw       *store.Gateway
	sessions *SessionService
	players  *PlayerService
	stats    *StatsService
	sheets   *SheetService
	detector *stubDetector
}

type stubDetector struct {
	result map[models.Color]int64
	err    error
	active []models.Color
}

func (d *stubDetector) Detect(ctx context.Context, image []byte, filename string, active []models.Color) (map[models.Color]int64, error) {
	d.active = active
	return d.result, d.err
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := newFlakyStore()
	gw := store.NewGateway(backend)
	det := &stubDetector{}
	return &fixture{
		backend:  backend,
		gw:       gw,
		sessions: NewSessionService(gw, time.Second),
		players:  NewPlayerService(gw, time.Second),
		stats:    NewStatsService(gw, time.Second, 4),
		sheets:   NewSheetService(gw, time.Second, det),
		detector: det,
	}
}

func (f *fixture) session(t *testing.T, colors ...models.ChipColor) *models.Session {
	t.Helper()
	if len(colors) == 0 {
		colors = []models.ChipColor{
			{Color: models.Red, Value: dec("0.50")},
			{Color: models.Black, Value: dec("1.00")},
		}
	}
	s, _, err := f.sessions.CreateSession(context.Background(), "Friday game", "user-1", colors)
	require.NoError(t, err)
	return s
}

func (f *fixture) player(t *testing.T, sessionID, name, buyIn string) *models.Player {
	t.Helper()
	p, err := f.players.CreatePlayer(context.Background(), sessionID, name, dec(buyIn))
	require.NoError(t, err)
	return p
}

func TestValidationErrorsNeverReachTheStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.sessions.CreateSession(ctx, "  ", "user-1", StandardColors(""))
	v, ok := IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "title", v.Field)

	_, _, err = f.sessions.CreateSession(ctx, "Game", "user-1", nil)
	_, ok = IsValidation(err)
	assert.True(t, ok)

	_, _, err = f.sessions.CreateSession(ctx, "Game", "user-1", []models.ChipColor{{Color: "purple"}})
	_, ok = IsValidation(err)
	assert.True(t, ok)

	sessions, err := f.sessions.ListSessions(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestNotFoundIsDistinctFromStoreFailure(t *testing.T) {
	f := newFixture(t)

	_, err := f.sessions.GetSession(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrStore)
	assert.Equal(t, MsgSessionMissing, err.Error())
}
