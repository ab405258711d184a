package ledger

import (
	"testing"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyStandardValuesOverwritesEverything(t *testing.T) {
	s := NewSheet(models.Red)
	s.SetValue(models.Blue, dec("7"))
	s.SetValue(models.Black, dec("-2"))

	s.ApplyStandardValues()

	want := map[models.Color]string{
		models.Red:   "0.50",
		models.Green: "0.20",
		models.Blue:  "0.00",
		models.White: "0.10",
		models.Black: "1.00",
	}
	for c, v := range want {
		assert.Equal(t, v, s.Value(c).StringFixed(2), string(c))
	}
}

func TestRemoveThenAddRestoresCountAndValue(t *testing.T) {
	s := NewSheet(models.Red, models.Green)
	require.NoError(t, s.SetChipCount(models.Green, "12"))
	require.NoError(t, s.SetChipValue(models.Green, "0.25"))

	s.RemoveColor(models.Green)
	assert.False(t, s.IsActive(models.Green))
	assert.Equal(t, "0.00", s.Total().StringFixed(2))

	require.NoError(t, s.AddColor(models.Green))
	assert.Equal(t, int64(12), s.Count(models.Green))
	assert.Equal(t, "0.25", s.Value(models.Green).StringFixed(2))
	assert.Equal(t, "3.00", s.Total().StringFixed(2))
	assert.Equal(t, []models.Color{models.Red, models.Green}, s.Active())
}

func TestAddColorRejectsUnknownColor(t *testing.T) {
	s := NewSheet()
	assert.ErrorIs(t, s.AddColor("purple"), ErrInvalidInput)
	assert.Empty(t, s.Active())
	assert.Len(t, s.Available(), len(models.AllColors))
}

func TestInvalidEntriesLeaveStateUntouched(t *testing.T) {
	s := NewSheet(models.Red)
	require.NoError(t, s.SetChipCount(models.Red, "4"))
	require.NoError(t, s.SetChipValue(models.Red, "0.5"))

	assert.ErrorIs(t, s.SetChipCount(models.Red, "four"), ErrInvalidInput)
	assert.ErrorIs(t, s.SetChipValue(models.Red, "$$"), ErrInvalidInput)

	assert.Equal(t, int64(4), s.Count(models.Red))
	assert.Equal(t, "0.50", s.Value(models.Red).StringFixed(2))
}

func TestEmptyEntriesBecomeZero(t *testing.T) {
	s := NewSheet(models.Red)
	require.NoError(t, s.SetChipCount(models.Red, "4"))
	require.NoError(t, s.SetChipCount(models.Red, ""))
	require.NoError(t, s.SetChipValue(models.Red, ""))
	assert.Equal(t, int64(0), s.Count(models.Red))
	assert.True(t, s.Value(models.Red).IsZero())
}

func TestNegativeChipValueIsAllowed(t *testing.T) {
	s := NewSheet(models.Black)
	require.NoError(t, s.SetChipValue(models.Black, "-1"))
	s.SetCount(models.Black, 2)
	assert.Equal(t, "-2.00", s.Total().StringFixed(2))
}

func TestApplyDetectionOnlyTouchesActiveColors(t *testing.T) {
	s := NewSheet(models.Red, models.Blue)
	s.SetCount(models.Blue, 4)
	s.SetCount(models.Green, 1)

	s.ApplyDetection(map[models.Color]int64{models.Red: 7, models.Green: 3})

	assert.Equal(t, int64(7), s.Count(models.Red))
	assert.Equal(t, int64(4), s.Count(models.Blue))
	assert.Equal(t, int64(1), s.Count(models.Green))
}

func TestSheetTotals(t *testing.T) {
	s := SheetFromColors([]models.ChipColor{
		{Color: models.Red, Value: dec("0.5"), IsActive: true},
		{Color: models.Green, Value: dec("0.2"), IsActive: false},
		{Color: models.Black, Value: dec("1"), IsActive: true},
	})
	s.SetCount(models.Red, 4)
	s.SetCount(models.Green, 10)
	s.SetCount(models.Black, 1)
	s.SetBuyIn(decimal.NewFromInt(5))

	assert.Equal(t, "3.00", s.Total().StringFixed(2))
	assert.Equal(t, "-2.00", s.NetProfit().StringFixed(2))

	counts := s.ActiveCounts()
	require.Len(t, counts, 2)
	assert.Equal(t, models.ChipCount{Color: models.Red, Count: 4}, counts[0])
	assert.Equal(t, models.ChipCount{Color: models.Black, Count: 1}, counts[1])
}
