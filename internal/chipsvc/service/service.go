// Package service holds the chip session business rules on top of the
// persistence gateway.
package service

import (
	"context"
	"time"

	"github.com/avvvet/chip-services/internal/chipsvc/ledger"
	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/avvvet/chip-services/internal/chipsvc/store"
	log "github.com/sirupsen/logrus"
)

const DefaultTimeout = 10 * time.Second

// base is shared by the services: the injected gateway and the per call timeout.
type base struct {
	gw      *store.Gateway
	timeout time.Duration
}

func newBase(gw *store.Gateway, timeout time.Duration) base {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return base{gw: gw, timeout: timeout}
}

func (b base) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.timeout)
}

func (b base) session(ctx context.Context, id string) (*models.Session, error) {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	s, err := b.gw.Sessions.GetSession(ctx, id)
	if err != nil {
		log.WithFields(log.Fields{"op": "GetSession", "session_id": id}).WithError(err).Error("session lookup failed")
		return nil, storeFailure("get session", err)
	}
	if s == nil {
		return nil, notFound("Session")
	}
	return s, nil
}

func (b base) player(ctx context.Context, id string) (*models.Player, error) {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	p, err := b.gw.Players.GetPlayer(ctx, id)
	if err != nil {
		log.WithFields(log.Fields{"op": "GetPlayer", "player_id": id}).WithError(err).Error("player lookup failed")
		return nil, storeFailure("get player", err)
	}
	if p == nil {
		return nil, notFound("Player")
	}
	return p, nil
}

// chipColors returns the session's chip color table. When nothing is stored,
// or the fetch fails, the standard table with every color active is used.
func (b base) chipColors(ctx context.Context, sessionID string) []models.ChipColor {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	colors, err := b.gw.ChipColors.ListChipColors(ctx, sessionID)
	if err != nil {
		log.WithFields(log.Fields{"op": "ListChipColors", "session_id": sessionID}).WithError(err).
			Warn("chip colors unavailable, using standard table")
		return StandardColors(sessionID)
	}
	if len(colors) == 0 {
		log.WithField("session_id", sessionID).Debug("no chip colors stored, using standard table")
		return StandardColors(sessionID)
	}
	return colors
}

// StandardColors is the preset denomination table with all five colors active.
func StandardColors(sessionID string) []models.ChipColor {
	values := ledger.StandardValues()
	out := make([]models.ChipColor, 0, len(models.AllColors))
	for _, c := range models.AllColors {
		out = append(out, models.ChipColor{
			SessionID: sessionID,
			Color:     c,
			Value:     values[c],
			IsActive:  true,
		})
	}
	return out
}
