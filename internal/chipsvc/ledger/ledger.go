// Package ledger holds the chip arithmetic: total chip value and net profit
// derived from counts, denominations and a buy-in. Nothing in here touches storage.
package ledger

import (
	"errors"
	"strconv"
	"strings"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned for non-numeric count or value entries. State is left untouched.
var ErrInvalidInput = errors.New("invalid numeric input")

var standardValues = map[models.Color]decimal.Decimal{
	models.Red:   decimal.RequireFromString("0.50"),
	models.Green: decimal.RequireFromString("0.20"),
	models.Blue:  decimal.Zero,
	models.White: decimal.RequireFromString("0.10"),
	models.Black: decimal.RequireFromString("1.00"),
}

// StandardValues returns a fresh copy of the preset denomination table.
func StandardValues() map[models.Color]decimal.Decimal {
	values := make(map[models.Color]decimal.Decimal, len(standardValues))
	for c, v := range standardValues {
		values[c] = v
	}
	return values
}

// ChipValue sums count*value over the active colors only. A color missing from
// counts or values contributes nothing.
func ChipValue(active []models.Color, counts map[models.Color]int64, values map[models.Color]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	seen := make(map[models.Color]bool, len(active))
	for _, c := range active {
		if seen[c] {
			continue
		}
		seen[c] = true

		count, ok := counts[c]
		if !ok {
			continue
		}
		value, ok := values[c]
		if !ok {
			continue
		}
		total = total.Add(value.Mul(decimal.NewFromInt(count)))
	}
	return total
}

// NetProfit is chipValue - buyIn. A negative result is a loss, not an error.
func NetProfit(chipValue, buyIn decimal.Decimal) decimal.Decimal {
	return chipValue.Sub(buyIn)
}

// ParseCount converts a count entry. Empty input is 0; negative counts are allowed.
func ParseCount(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrInvalidInput
	}
	return n, nil
}

// ParseAmount converts a currency entry. Empty input is 0; negative amounts are allowed.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidInput
	}
	return d, nil
}

// FormatAmount renders an amount the way every screen shows money: two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
