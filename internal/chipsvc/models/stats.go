package models

import "github.com/shopspring/decimal"

// PlayerStats is a derived row of the session statistics view. Nothing here is persisted.
type PlayerStats struct {
	PlayerID   string          `json:"player_id"`
	Name       string          `json:"name"`
	ChipValue  decimal.Decimal `json:"chip_value"`
	BuyIn      decimal.Decimal `json:"buy_in"`
	NetProfit  decimal.Decimal `json:"net_profit"`
	ChipCounts []ChipCount     `json:"chip_counts"`
}
