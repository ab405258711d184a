// Package store is the persistence gateway. It owns no business rules.
//
// Lookups of a single record return (nil, nil) when the record does not exist;
// any returned error means the backend could not serve the call.
package store

import (
	"context"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
)

type SessionStore interface {
	CreateSession(ctx context.Context, s *models.Session) (string, error)
	GetSession(ctx context.Context, id string) (*models.Session, error)
	// ListSessions returns the sessions owned by ownerUserID, newest first.
	// An empty ownerUserID lists every session.
	ListSessions(ctx context.Context, ownerUserID string) ([]*models.Session, error)
	UpdateSession(ctx context.Context, s *models.Session) error
	DeleteSession(ctx context.Context, id string) error
}

type ChipColorStore interface {
	// SetChipColors writes one record per (session, color), replacing an existing one.
	SetChipColors(ctx context.Context, sessionID string, colors []models.ChipColor) error
	ListChipColors(ctx context.Context, sessionID string) ([]models.ChipColor, error)
}

type PlayerStore interface {
	CreatePlayer(ctx context.Context, p *models.Player) (string, error)
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	ListPlayers(ctx context.Context, sessionID string) ([]*models.Player, error)
	UpdatePlayer(ctx context.Context, p *models.Player) error
	DeletePlayer(ctx context.Context, id string) error
}

type ChipCountStore interface {
	ListChipCounts(ctx context.Context, playerID string) ([]models.ChipCount, error)
	// ReplaceChipCounts deletes every count of the player, then inserts counts.
	ReplaceChipCounts(ctx context.Context, playerID string, counts []models.ChipCount) error
}

type ParticipantStore interface {
	// AddParticipant is idempotent for the same (session, user) pair.
	AddParticipant(ctx context.Context, sessionID, userID string) error
	ListParticipants(ctx context.Context, sessionID string) ([]models.SessionParticipant, error)
}

// Gateway bundles the five record stores behind one injected handle.
type Gateway struct {
	Sessions     SessionStore
	ChipColors   ChipColorStore
	Players      PlayerStore
	ChipCounts   ChipCountStore
	Participants ParticipantStore

	// Close releases the backend; nil when there is nothing to release.
	Close func()
}

// Backend is implemented by stores that serve all five record types.
type Backend interface {
	SessionStore
	ChipColorStore
	PlayerStore
	ChipCountStore
	ParticipantStore
}

func NewGateway(b Backend) *Gateway {
	return &Gateway{
		Sessions:     b,
		ChipColors:   b,
		Players:      b,
		ChipCounts:   b,
		Participants: b,
	}
}

func (g *Gateway) Shutdown() {
	if g != nil && g.Close != nil {
		g.Close()
	}
}
