package service

import (
	"context"
	"strings"
	"time"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/avvvet/chip-services/internal/chipsvc/store"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Messages shown to the user for player data.
const (
	MsgEnterName      = "Please enter your name"
	MsgSaveFailed     = "Failed to save player data"
	MsgSaved          = "Your data has been saved"
	MsgSessionMissing = "Session not found"
)

type PlayerService struct {
	base
}

func NewPlayerService(gw *store.Gateway, timeout time.Duration) *PlayerService {
	return &PlayerService{base: newBase(gw, timeout)}
}

func (s *PlayerService) CreatePlayer(ctx context.Context, sessionID, name string, buyIn decimal.Decimal) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", MsgEnterName)
	}

	if _, err := s.session(ctx, sessionID); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p := &models.Player{SessionID: sessionID, Name: name, BuyIn: buyIn}
	id, err := s.gw.Players.CreatePlayer(ctx, p)
	if err != nil {
		log.WithFields(log.Fields{"op": "CreatePlayer", "session_id": sessionID}).WithError(err).Error("failed to create player")
		return nil, storeFailure("create player", err)
	}
	p.ID = id
	return p, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	return s.player(ctx, id)
}

func (s *PlayerService) ListPlayers(ctx context.Context, sessionID string) ([]*models.Player, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	players, err := s.gw.Players.ListPlayers(ctx, sessionID)
	if err != nil {
		log.WithFields(log.Fields{"op": "ListPlayers", "session_id": sessionID}).WithError(err).Error("failed to list players")
		return nil, storeFailure("list players", err)
	}
	return players, nil
}

// UpdateBuyIn sets the buy-in of a player. Negative amounts are accepted.
func (s *PlayerService) UpdateBuyIn(ctx context.Context, playerID string, buyIn decimal.Decimal) (*models.Player, error) {
	p, err := s.player(ctx, playerID)
	if err != nil {
		return nil, err
	}
	p.BuyIn = buyIn

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.gw.Players.UpdatePlayer(ctx, p); err != nil {
		log.WithFields(log.Fields{"op": "UpdatePlayer", "player_id": playerID}).WithError(err).Error("failed to update buy-in")
		return nil, storeFailure("update buy-in", err)
	}
	return p, nil
}

func (s *PlayerService) ChipCounts(ctx context.Context, playerID string) ([]models.ChipCount, error) {
	if _, err := s.player(ctx, playerID); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	counts, err := s.gw.ChipCounts.ListChipCounts(ctx, playerID)
	if err != nil {
		log.WithFields(log.Fields{"op": "ListChipCounts", "player_id": playerID}).WithError(err).Error("failed to list chip counts")
		return nil, storeFailure("list chip counts", err)
	}
	return counts, nil
}

// ReplaceChipCounts makes counts the complete set of the player's chip counts.
// A color given twice keeps its last count.
func (s *PlayerService) ReplaceChipCounts(ctx context.Context, playerID string, counts []models.ChipCount) ([]models.ChipCount, error) {
	normalized, err := normalizeCounts(playerID, counts)
	if err != nil {
		return nil, err
	}

	if _, err := s.player(ctx, playerID); err != nil {
		return nil, err
	}

	if err := s.replaceCounts(ctx, playerID, normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

func (s *PlayerService) DeletePlayer(ctx context.Context, id string) error {
	if _, err := s.player(ctx, id); err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.gw.Players.DeletePlayer(ctx, id); err != nil {
		log.WithFields(log.Fields{"op": "DeletePlayer", "player_id": id}).WithError(err).Error("failed to delete player")
		return storeFailure("delete player", err)
	}
	return nil
}

func (b base) replaceCounts(ctx context.Context, playerID string, counts []models.ChipCount) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	if err := b.gw.ChipCounts.ReplaceChipCounts(ctx, playerID, counts); err != nil {
		log.WithFields(log.Fields{"op": "ReplaceChipCounts", "player_id": playerID}).WithError(err).Error("failed to replace chip counts")
		return storeFailure("replace chip counts", err)
	}
	return nil
}

func normalizeCounts(playerID string, counts []models.ChipCount) ([]models.ChipCount, error) {
	index := make(map[models.Color]int, len(counts))
	out := make([]models.ChipCount, 0, len(counts))
	for _, c := range counts {
		if !c.Color.Valid() {
			return nil, invalid("color", "Unknown chip color "+string(c.Color))
		}
		if i, ok := index[c.Color]; ok {
			out[i].Count = c.Count
			continue
		}
		index[c.Color] = len(out)
		out = append(out, models.ChipCount{PlayerID: playerID, Color: c.Color, Count: c.Count})
	}
	return out, nil
}
