package store

import (
	"context"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	log "github.com/sirupsen/logrus"
)

// PlaceholderID is handed out for every record created through the mock backend.
const PlaceholderID = "00000000-0000-0000-0000-000000000001"

// MockStore is selected when no backend is configured. Every call succeeds:
// writes are dropped, creates return PlaceholderID, lookups find nothing and
// lists are empty.
type MockStore struct{}

func NewMockStore() *MockStore {
	log.Warn("no store backend configured, using mock store: nothing will be persisted")
	return &MockStore{}
}

func (MockStore) CreateSession(ctx context.Context, s *models.Session) (string, error) {
	return PlaceholderID, nil
}

func (MockStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	return nil, nil
}

func (MockStore) ListSessions(ctx context.Context, ownerUserID string) ([]*models.Session, error) {
	return []*models.Session{}, nil
}

func (MockStore) UpdateSession(ctx context.Context, s *models.Session) error { return nil }
func (MockStore) DeleteSession(ctx context.Context, id string) error         { return nil }

func (MockStore) SetChipColors(ctx context.Context, sessionID string, colors []models.ChipColor) error {
	return nil
}

func (MockStore) ListChipColors(ctx context.Context, sessionID string) ([]models.ChipColor, error) {
	return []models.ChipColor{}, nil
}

func (MockStore) CreatePlayer(ctx context.Context, p *models.Player) (string, error) {
	return PlaceholderID, nil
}

func (MockStore) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	return nil, nil
}

func (MockStore) ListPlayers(ctx context.Context, sessionID string) ([]*models.Player, error) {
	return []*models.Player{}, nil
}

func (MockStore) UpdatePlayer(ctx context.Context, p *models.Player) error { return nil }
func (MockStore) DeletePlayer(ctx context.Context, id string) error        { return nil }

func (MockStore) ListChipCounts(ctx context.Context, playerID string) ([]models.ChipCount, error) {
	return []models.ChipCount{}, nil
}

func (MockStore) ReplaceChipCounts(ctx context.Context, playerID string, counts []models.ChipCount) error {
	return nil
}

func (MockStore) AddParticipant(ctx context.Context, sessionID, userID string) error { return nil }

func (MockStore) ListParticipants(ctx context.Context, sessionID string) ([]models.SessionParticipant, error) {
	return []models.SessionParticipant{}, nil
}
