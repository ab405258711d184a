package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func typeKeys(e *CurrencyEntry, keys ...string) {
	for _, k := range keys {
		e.Key(k)
	}
}

func TestCurrencyEntryDigitsShiftFromTheRight(t *testing.T) {
	e := NewCurrencyEntry(decimal.Zero)
	assert.Equal(t, "0.00", e.Display())

	e.Key("5")
	assert.Equal(t, "0.05", e.Display())
	e.Key("0")
	assert.Equal(t, "0.50", e.Display())
	assert.True(t, e.Value().Equal(dec("0.5")))

	typeKeys(e, "0", "7")
	assert.Equal(t, "50.07", e.Display())
}

func TestCurrencyEntryMinusTogglesSign(t *testing.T) {
	e := NewCurrencyEntry(decimal.Zero)
	typeKeys(e, "5", "0")

	e.Key(KeyMinus)
	assert.Equal(t, "-0.50", e.Display())
	assert.True(t, e.Value().Equal(dec("-0.5")))

	e.Key("1")
	assert.Equal(t, "-5.01", e.Display())

	e.Key(KeyMinus)
	assert.Equal(t, "5.01", e.Display())
	assert.True(t, e.Value().Equal(dec("5.01")))
}

func TestCurrencyEntryBackspace(t *testing.T) {
	e := NewCurrencyEntry(decimal.Zero)
	e.Key("5")
	e.Key(KeyBackspace)
	assert.Equal(t, "0.00", e.Display())
	assert.True(t, e.Value().IsZero())

	e = NewCurrencyEntry(dec("12.34"))
	e.Key(KeyBackspace)
	assert.Equal(t, "1.23", e.Display())

	e = NewCurrencyEntry(dec("-0.05"))
	assert.Equal(t, "-0.05", e.Display())
	e.Key(KeyBackspace)
	assert.Equal(t, "-0.00", e.Display())
	assert.True(t, e.Value().IsZero())
}

func TestCurrencyEntryRejectsOtherKeys(t *testing.T) {
	e := NewCurrencyEntry(dec("1.5"))
	assert.False(t, e.Key("a"))
	assert.False(t, e.Key("."))
	assert.True(t, e.Key("Tab"))
	assert.Equal(t, "1.50", e.Display())
}

func TestCurrencyEntryPaste(t *testing.T) {
	e := NewCurrencyEntry(decimal.Zero)
	assert.True(t, e.Paste("$12.345"))
	assert.Equal(t, "12.35", e.Display())
	assert.True(t, e.Value().Equal(dec("12.345")))

	assert.True(t, e.Paste("-3"))
	assert.Equal(t, "-3.00", e.Display())

	assert.False(t, e.Paste("abc"))
	assert.Equal(t, "-3.00", e.Display())
}
