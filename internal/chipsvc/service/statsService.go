package service

import (
	"context"
	"time"

	"github.com/avvvet/chip-services/internal/chipsvc/ledger"
	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/avvvet/chip-services/internal/chipsvc/store"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type StatsService struct {
	base
	concurrency int
}

func NewStatsService(gw *store.Gateway, timeout time.Duration, concurrency int) *StatsService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &StatsService{base: newBase(gw, timeout), concurrency: concurrency}
}

// GetSessionStats returns one row per player, in the order the store lists
// players. The chip color table is read once for all players. A player whose
// chip counts cannot be read still gets a row, with a chip value of zero.
func (s *StatsService) GetSessionStats(ctx context.Context, sessionID string) ([]models.PlayerStats, error) {
	listCtx, cancel := s.withTimeout(ctx)
	players, err := s.gw.Players.ListPlayers(listCtx, sessionID)
	cancel()
	if err != nil {
		log.WithFields(log.Fields{"op": "ListPlayers", "session_id": sessionID}).WithError(err).Error("failed to list players for stats")
		return nil, storeFailure("list players", err)
	}

	stats := make([]models.PlayerStats, len(players))
	if len(players) == 0 {
		return stats, nil
	}

	colors := s.chipColors(ctx, sessionID)
	active := make([]models.Color, 0, len(colors))
	values := make(map[models.Color]decimal.Decimal, len(colors))
	for _, c := range colors {
		if c.IsActive {
			active = append(active, c.Color)
		}
		values[c.Color] = c.Value
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, p := range players {
		i, p := i, p
		g.Go(func() error {
			stats[i] = s.playerStats(gctx, p, active, values)
			return nil
		})
	}
	_ = g.Wait()

	return stats, nil
}

func (s *StatsService) playerStats(ctx context.Context, p *models.Player, active []models.Color, values map[models.Color]decimal.Decimal) models.PlayerStats {
	row := models.PlayerStats{
		PlayerID:   p.ID,
		Name:       p.Name,
		ChipValue:  decimal.Zero,
		BuyIn:      p.BuyIn,
		NetProfit:  ledger.NetProfit(decimal.Zero, p.BuyIn),
		ChipCounts: []models.ChipCount{},
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	counts, err := s.gw.ChipCounts.ListChipCounts(ctx, p.ID)
	if err != nil {
		log.WithFields(log.Fields{"op": "ListChipCounts", "player_id": p.ID}).WithError(err).
			Warn("chip counts unavailable, reporting zero chip value")
		return row
	}

	byColor := make(map[models.Color]int64, len(counts))
	for _, c := range counts {
		byColor[c.Color] += c.Count
	}

	row.ChipValue = ledger.ChipValue(active, byColor, values)
	row.NetProfit = ledger.NetProfit(row.ChipValue, p.BuyIn)
	row.ChipCounts = counts
	return row
}

// Totals sums a stats view into session-wide figures.
func Totals(stats []models.PlayerStats) (chipValue, buyIn, netProfit decimal.Decimal) {
	for _, r := range stats {
		chipValue = chipValue.Add(r.ChipValue)
		buyIn = buyIn.Add(r.BuyIn)
		netProfit = netProfit.Add(r.NetProfit)
	}
	return chipValue, buyIn, netProfit
}
