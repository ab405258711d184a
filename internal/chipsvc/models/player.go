package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Player struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Name      string          `json:"name"`
	BuyIn     decimal.Decimal `json:"buy_in"`
	CreatedAt time.Time       `json:"created_at"`
}

// ChipCount is the number of chips of one color a player holds.
// Negative counts are accepted as correction entries.
type ChipCount struct {
	ID       string `json:"id"`
	PlayerID string `json:"player_id"`
	Color    Color  `json:"color"`
	Count    int64  `json:"count"`
}
