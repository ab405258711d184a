package ledger

import (
	"fmt"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/shopspring/decimal"
)

// Sheet is the in-memory state of one player's chips: the active color set,
// per-color counts and values, and the buy-in. Removing a color only deactivates
// it; its count and value stay so that re-adding restores them.
type Sheet struct {
	active []models.Color
	counts map[models.Color]int64
	values map[models.Color]decimal.Decimal
	buyIn  decimal.Decimal
}

func NewSheet(active ...models.Color) *Sheet {
	s := &Sheet{
		counts: make(map[models.Color]int64, len(models.AllColors)),
		values: make(map[models.Color]decimal.Decimal, len(models.AllColors)),
	}
	for _, c := range models.AllColors {
		s.counts[c] = 0
		s.values[c] = decimal.Zero
	}
	for _, c := range active {
		_ = s.AddColor(c)
	}
	return s
}

// SheetFromColors builds a sheet from a session's chip color table.
func SheetFromColors(colors []models.ChipColor) *Sheet {
	s := NewSheet()
	for _, cc := range colors {
		if !cc.Color.Valid() {
			continue
		}
		s.values[cc.Color] = cc.Value
		if cc.IsActive {
			_ = s.AddColor(cc.Color)
		}
	}
	return s
}

func (s *Sheet) Active() []models.Color {
	out := make([]models.Color, len(s.active))
	copy(out, s.active)
	return out
}

func (s *Sheet) IsActive(c models.Color) bool {
	for _, a := range s.active {
		if a == c {
			return true
		}
	}
	return false
}

// AddColor appends c to the active set. Adding an active color is a no-op.
func (s *Sheet) AddColor(c models.Color) error {
	if !c.Valid() {
		return fmt.Errorf("add color %q: %w", c, ErrInvalidInput)
	}
	if s.IsActive(c) {
		return nil
	}
	s.active = append(s.active, c)
	return nil
}

func (s *Sheet) RemoveColor(c models.Color) {
	for i, a := range s.active {
		if a == c {
			s.active = append(s.active[:i], s.active[i+1:]...)
			return
		}
	}
}

// Available lists the colors that can still be added.
func (s *Sheet) Available() []models.Color {
	var out []models.Color
	for _, c := range models.AllColors {
		if !s.IsActive(c) {
			out = append(out, c)
		}
	}
	return out
}

// SetChipValue parses raw and stores it as the denomination of c.
func (s *Sheet) SetChipValue(c models.Color, raw string) error {
	if !c.Valid() {
		return fmt.Errorf("set value of %q: %w", c, ErrInvalidInput)
	}
	v, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	s.values[c] = v
	return nil
}

// SetChipCount parses raw and stores it as the count of c.
func (s *Sheet) SetChipCount(c models.Color, raw string) error {
	if !c.Valid() {
		return fmt.Errorf("set count of %q: %w", c, ErrInvalidInput)
	}
	n, err := ParseCount(raw)
	if err != nil {
		return err
	}
	s.counts[c] = n
	return nil
}

func (s *Sheet) SetValue(c models.Color, v decimal.Decimal) {
	if c.Valid() {
		s.values[c] = v
	}
}

func (s *Sheet) SetCount(c models.Color, n int64) {
	if c.Valid() {
		s.counts[c] = n
	}
}

func (s *Sheet) Count(c models.Color) int64           { return s.counts[c] }
func (s *Sheet) Value(c models.Color) decimal.Decimal { return s.values[c] }

func (s *Sheet) Counts() map[models.Color]int64 {
	out := make(map[models.Color]int64, len(s.counts))
	for c, n := range s.counts {
		out[c] = n
	}
	return out
}

func (s *Sheet) Values() map[models.Color]decimal.Decimal {
	out := make(map[models.Color]decimal.Decimal, len(s.values))
	for c, v := range s.values {
		out[c] = v
	}
	return out
}

func (s *Sheet) BuyIn() decimal.Decimal     { return s.buyIn }
func (s *Sheet) SetBuyIn(d decimal.Decimal) { s.buyIn = d }

// ApplyStandardValues overwrites all five values with the preset table,
// whether or not the color is active.
func (s *Sheet) ApplyStandardValues() {
	for c, v := range standardValues {
		s.values[c] = v
	}
}

// ApplyDetection overwrites counts with detected ones, for active colors only.
func (s *Sheet) ApplyDetection(detected map[models.Color]int64) {
	for c, n := range detected {
		if s.IsActive(c) {
			s.counts[c] = n
		}
	}
}

func (s *Sheet) Total() decimal.Decimal {
	return ChipValue(s.active, s.counts, s.values)
}

func (s *Sheet) NetProfit() decimal.Decimal {
	return NetProfit(s.Total(), s.buyIn)
}

// ActiveCounts returns the counts to persist: one per active color, in active order.
func (s *Sheet) ActiveCounts() []models.ChipCount {
	out := make([]models.ChipCount, 0, len(s.active))
	for _, c := range s.active {
		out = append(out, models.ChipCount{Color: c, Count: s.counts[c]})
	}
	return out
}

// ActiveColors returns the chip color records to persist for a new session.
func (s *Sheet) ActiveColors() []models.ChipColor {
	out := make([]models.ChipColor, 0, len(s.active))
	for _, c := range s.active {
		out = append(out, models.ChipColor{Color: c, Value: s.values[c], IsActive: true})
	}
	return out
}
