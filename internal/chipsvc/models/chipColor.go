package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Color is one of the five chip categories. The set is closed.
type Color string

const (
	Red   Color = "red"
	Green Color = "green"
	Blue  Color = "blue"
	White Color = "white"
	Black Color = "black"
)

// AllColors lists the chip colors in display order.
var AllColors = []Color{Red, Green, Blue, White, Black}

func (c Color) Valid() bool {
	switch c {
	case Red, Green, Blue, White, Black:
		return true
	}
	return false
}

// ParseColor accepts a color name in any case.
func ParseColor(s string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown chip color %q", s)
	}
	return c, nil
}

type ChipColor struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Color     Color           `json:"color"`
	Value     decimal.Decimal `json:"value"`
	IsActive  bool            `json:"is_active"`
}
