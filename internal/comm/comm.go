package comm

import (
	"encoding/json"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/shopspring/decimal"
)

// Message types accepted on the chip service subject.
const (
	TypeGetSessionStats = "get-session-stats"
	TypeUpdateBuyIn     = "update-buy-in"
	TypeSaveChipCounts  = "save-chip-counts"
)

// Message is the request envelope exchanged over NATS.
type Message struct {
	Type      string          `json:"type"` // e.g. "get-session-stats"
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id,omitempty"`
}

// Reply mirrors the HTTP response envelope.
type Reply struct {
	Type      string      `json:"type"`
	RequestID string      `json:"request_id,omitempty"`
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Error     string      `json:"error"`
}

type SessionStatsRequest struct {
	SessionID string `json:"session_id"`
}

type BuyInUpdate struct {
	PlayerID string          `json:"player_id"`
	BuyIn    decimal.Decimal `json:"buy_in"`
}

type ChipCountsUpdate struct {
	PlayerID string             `json:"player_id"`
	Counts   []models.ChipCount `json:"counts"`
}

// StatsRow is one player of a stats reply, amounts as two-decimal strings.
type StatsRow struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	ChipValue string `json:"chip_value"`
	BuyIn     string `json:"buy_in"`
	NetProfit string `json:"net_profit"`
}
