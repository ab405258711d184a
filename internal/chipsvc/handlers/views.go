package handlers

import (
	"time"

	"github.com/avvvet/chip-services/internal/chipsvc/ledger"
	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/avvvet/chip-services/internal/chipsvc/notice"
	"github.com/avvvet/chip-services/internal/chipsvc/service"
)

type chipColorView struct {
	Color    models.Color `json:"color"`
	Value    string       `json:"value"`
	IsActive bool         `json:"is_active"`
}

type playerView struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Name      string    `json:"name"`
	BuyIn     string    `json:"buy_in"`
	CreatedAt time.Time `json:"created_at"`
}

type statsRowView struct {
	PlayerID   string             `json:"player_id"`
	Name       string             `json:"name"`
	ChipValue  string             `json:"chip_value"`
	BuyIn      string             `json:"buy_in"`
	NetProfit  string             `json:"net_profit"`
	ChipCounts []models.ChipCount `json:"chip_counts"`
}

type statsView struct {
	SessionID string         `json:"session_id"`
	Title     string         `json:"title"`
	Players   []statsRowView `json:"players"`
	ChipValue string         `json:"total_chip_value"`
	BuyIn     string         `json:"total_buy_in"`
	NetProfit string         `json:"total_net_profit"`
}

type sheetView struct {
	SessionID string                  `json:"session_id"`
	Title     string                  `json:"title"`
	Player    *playerView             `json:"player"`
	Active    []models.Color          `json:"active"`
	Available []models.Color          `json:"available"`
	Values    map[models.Color]string `json:"values"`
	Counts    map[models.Color]int64  `json:"counts"`
	BuyIn     string                  `json:"buy_in"`
	Total     string                  `json:"total"`
	NetProfit string                  `json:"net_profit"`
	Notice    *notice.Notice          `json:"notice,omitempty"`
}

func chipColorViews(colors []models.ChipColor) []chipColorView {
	out := make([]chipColorView, 0, len(colors))
	for _, c := range colors {
		out = append(out, chipColorView{Color: c.Color, Value: ledger.FormatAmount(c.Value), IsActive: c.IsActive})
	}
	return out
}

func newPlayerView(p *models.Player) *playerView {
	if p == nil {
		return nil
	}
	return &playerView{
		ID:        p.ID,
		SessionID: p.SessionID,
		Name:      p.Name,
		BuyIn:     ledger.FormatAmount(p.BuyIn),
		CreatedAt: p.CreatedAt,
	}
}

func playerViews(players []*models.Player) []*playerView {
	out := make([]*playerView, 0, len(players))
	for _, p := range players {
		out = append(out, newPlayerView(p))
	}
	return out
}

func newStatsView(session *models.Session, stats []models.PlayerStats) statsView {
	rows := make([]statsRowView, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, statsRowView{
			PlayerID:   s.PlayerID,
			Name:       s.Name,
			ChipValue:  ledger.FormatAmount(s.ChipValue),
			BuyIn:      ledger.FormatAmount(s.BuyIn),
			NetProfit:  ledger.FormatAmount(s.NetProfit),
			ChipCounts: s.ChipCounts,
		})
	}
	chipValue, buyIn, net := service.Totals(stats)
	return statsView{
		SessionID: session.ID,
		Title:     session.Title,
		Players:   rows,
		ChipValue: ledger.FormatAmount(chipValue),
		BuyIn:     ledger.FormatAmount(buyIn),
		NetProfit: ledger.FormatAmount(net),
	}
}

func newSheetView(v *service.SheetView, n *notice.Notice) sheetView {
	values := make(map[models.Color]string, len(models.AllColors))
	for c, d := range v.Sheet.Values() {
		values[c] = ledger.FormatAmount(d)
	}
	available := v.Sheet.Available()
	if available == nil {
		available = []models.Color{}
	}
	return sheetView{
		SessionID: v.Session.ID,
		Title:     v.Session.Title,
		Player:    newPlayerView(v.Player),
		Active:    v.Sheet.Active(),
		Available: available,
		Values:    values,
		Counts:    v.Sheet.Counts(),
		BuyIn:     ledger.FormatAmount(v.Sheet.BuyIn()),
		Total:     ledger.FormatAmount(v.Sheet.Total()),
		NetProfit: ledger.FormatAmount(v.Sheet.NetProfit()),
		Notice:    n,
	}
}
