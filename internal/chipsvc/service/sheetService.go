package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avvvet/chip-services/internal/chipsvc/ledger"
	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/avvvet/chip-services/internal/chipsvc/store"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Detector counts chips on an image. Results are keyed by canonical color;
// labels it does not know are already dropped.
type Detector interface {
	Detect(ctx context.Context, image []byte, filename string, active []models.Color) (map[models.Color]int64, error)
}

// SheetView is one player's editable sheet inside a session. Player is nil
// when the session has no player yet.
type SheetView struct {
	Session *models.Session
	Player  *models.Player
	Sheet   *ledger.Sheet
}

// SheetInput is a save request. Active, when not empty, replaces the
// session's active color set for this save.
type SheetInput struct {
	PlayerID string
	Name     string
	BuyIn    decimal.Decimal
	Active   []models.Color
	Counts   map[models.Color]int64
}

type SheetService struct {
	base
	detector Detector
}

func NewSheetService(gw *store.Gateway, timeout time.Duration, detector Detector) *SheetService {
	return &SheetService{base: newBase(gw, timeout), detector: detector}
}

// LoadSheet builds the sheet of playerID. Without a player id the first
// player of the session is used.
func (s *SheetService) LoadSheet(ctx context.Context, sessionID, playerID string) (*SheetView, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	view := &SheetView{
		Session: session,
		Sheet:   ledger.SheetFromColors(s.chipColors(ctx, sessionID)),
	}

	player, err := s.resolvePlayer(ctx, sessionID, playerID)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return view, nil
	}
	view.Player = player
	view.Sheet.SetBuyIn(player.BuyIn)

	cctx, cancel := s.withTimeout(ctx)
	defer cancel()

	counts, err := s.gw.ChipCounts.ListChipCounts(cctx, player.ID)
	if err != nil {
		log.WithFields(log.Fields{"op": "ListChipCounts", "player_id": player.ID}).WithError(err).
			Warn("chip counts unavailable, sheet starts from zero")
		return view, nil
	}
	for _, c := range counts {
		view.Sheet.SetCount(c.Color, c.Count)
	}
	return view, nil
}

// SaveSheet validates the input, creates the player when there is none yet,
// writes name and buy-in and replaces the chip counts of the active colors.
// Once the player row is written a failure still returns the view next to the
// error, so the caller can retry against the same player id.
func (s *SheetService) SaveSheet(ctx context.Context, sessionID string, in SheetInput) (*SheetView, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", MsgEnterName)
	}
	for _, c := range in.Active {
		if !c.Valid() {
			return nil, invalid("active", "Unknown chip color "+string(c))
		}
	}
	for c := range in.Counts {
		if !c.Valid() {
			return nil, invalid("counts", "Unknown chip color "+string(c))
		}
	}

	session, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sheet := ledger.SheetFromColors(s.chipColors(ctx, sessionID))
	if len(in.Active) > 0 {
		for _, c := range sheet.Active() {
			sheet.RemoveColor(c)
		}
		for _, c := range in.Active {
			_ = sheet.AddColor(c)
		}
	}
	for c, n := range in.Counts {
		sheet.SetCount(c, n)
	}
	sheet.SetBuyIn(in.BuyIn)

	var player *models.Player
	if in.PlayerID != "" {
		if player, err = s.resolvePlayer(ctx, sessionID, in.PlayerID); err != nil {
			return nil, err
		}
	}

	wctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if player == nil {
		player = &models.Player{SessionID: sessionID, Name: name, BuyIn: in.BuyIn}
		id, err := s.gw.Players.CreatePlayer(wctx, player)
		if err != nil {
			log.WithFields(log.Fields{"op": "CreatePlayer", "session_id": sessionID}).WithError(err).Error("failed to create player")
			return nil, storeFailure("create player", err)
		}
		player.ID = id
	} else {
		player.Name = name
		player.BuyIn = in.BuyIn
		if err := s.gw.Players.UpdatePlayer(wctx, player); err != nil {
			log.WithFields(log.Fields{"op": "UpdatePlayer", "player_id": player.ID}).WithError(err).Error("failed to update player")
			return nil, storeFailure("update player", err)
		}
	}
	view := &SheetView{Session: session, Player: player, Sheet: sheet}

	counts := sheet.ActiveCounts()
	for i := range counts {
		counts[i].PlayerID = player.ID
	}
	if err := s.replaceCounts(ctx, player.ID, counts); err != nil {
		return view, err
	}

	log.WithFields(log.Fields{"session_id": sessionID, "player_id": player.ID, "counts": len(counts)}).Info("sheet saved")
	return view, nil
}

// DetectSheet loads the sheet and merges detected counts into its active
// colors. Nothing is persisted.
func (s *SheetService) DetectSheet(ctx context.Context, sessionID, playerID string, image []byte, filename string) (*SheetView, map[models.Color]int64, error) {
	if len(image) == 0 {
		return nil, nil, invalid("file", "Please choose an image")
	}

	view, err := s.LoadSheet(ctx, sessionID, playerID)
	if err != nil {
		return nil, nil, err
	}

	dctx, cancel := s.withTimeout(ctx)
	defer cancel()

	detected, err := s.detector.Detect(dctx, image, filename, view.Sheet.Active())
	if err != nil {
		log.WithFields(log.Fields{"op": "Detect", "session_id": sessionID}).WithError(err).Error("chip detection failed")
		return nil, nil, fmt.Errorf("detect chips: %w: %w", ErrDetection, err)
	}

	view.Sheet.ApplyDetection(detected)
	return view, detected, nil
}

// resolvePlayer returns the requested player, or the first player of the
// session when playerID is empty. A player of another session is not found.
func (s *SheetService) resolvePlayer(ctx context.Context, sessionID, playerID string) (*models.Player, error) {
	if playerID != "" {
		p, err := s.player(ctx, playerID)
		if err != nil {
			return nil, err
		}
		if p.SessionID != sessionID {
			return nil, notFound("Player")
		}
		return p, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	players, err := s.gw.Players.ListPlayers(ctx, sessionID)
	if err != nil {
		log.WithFields(log.Fields{"op": "ListPlayers", "session_id": sessionID}).WithError(err).Error("failed to list players")
		return nil, storeFailure("list players", err)
	}
	if len(players) == 0 {
		return nil, nil
	}
	return players[0], nil
}
