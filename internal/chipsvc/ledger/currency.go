package ledger

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Keys understood by CurrencyEntry besides the ten digits.
const (
	KeyBackspace = "Backspace"
	KeyMinus     = "-"
)

// passive keys are accepted but leave the entry unchanged.
var passiveKeys = map[string]bool{
	"Delete":     true,
	"Tab":        true,
	"ArrowLeft":  true,
	"ArrowRight": true,
}

var (
	nonDigit      = regexp.MustCompile(`[^\d]`)
	nonAmountChar = regexp.MustCompile(`[^\d.-]`)
	leadingNumber = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

// CurrencyEntry is a cash-register style amount field. Digits enter from the
// right into the cents position, Backspace drops the rightmost digit and minus
// toggles the sign of the whole amount.
type CurrencyEntry struct {
	display string
	value   decimal.Decimal
}

func NewCurrencyEntry(v decimal.Decimal) *CurrencyEntry {
	e := &CurrencyEntry{value: v}
	if v.IsNegative() {
		e.display = "-" + v.Abs().StringFixed(2)
	} else {
		e.display = v.StringFixed(2)
	}
	return e
}

func (e *CurrencyEntry) Display() string        { return e.display }
func (e *CurrencyEntry) Value() decimal.Decimal { return e.value }

// Key applies one keystroke and reports whether the key was accepted.
func (e *CurrencyEntry) Key(key string) bool {
	switch {
	case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
		prefix, digits := e.split()
		e.set(prefix + formatCents(digits+key))
	case key == KeyBackspace:
		prefix, digits := e.split()
		if len(digits) <= 1 {
			e.set(prefix + "0.00")
			return true
		}
		e.set(prefix + formatCents(digits[:len(digits)-1]))
	case key == KeyMinus:
		if strings.HasPrefix(e.display, "-") {
			e.set(e.display[1:])
		} else {
			e.display = "-" + e.display
			e.value = mustAmount(e.display[1:]).Abs().Neg()
		}
	case passiveKeys[key]:
	default:
		return false
	}
	return true
}

// Paste parses pasted text as a decimal amount. Text with no leading number is
// rejected and the entry stays as it was.
func (e *CurrencyEntry) Paste(text string) bool {
	cleaned := nonAmountChar.ReplaceAllString(text, "")
	m := leadingNumber.FindString(cleaned)
	if m == "" {
		return false
	}
	v, err := decimal.NewFromString(m)
	if err != nil {
		return false
	}
	e.value = v
	e.display = v.StringFixed(2)
	return true
}

func (e *CurrencyEntry) split() (prefix, digits string) {
	if strings.HasPrefix(e.display, "-") {
		prefix = "-"
	}
	return prefix, nonDigit.ReplaceAllString(e.display, "")
}

func (e *CurrencyEntry) set(display string) {
	e.display = display
	e.value = mustAmount(display)
}

// formatCents renders a digit run as dollars.cents, the last two digits being cents.
func formatCents(digits string) string {
	var dollars, cents string
	if len(digits) > 2 {
		dollars, cents = digits[:len(digits)-2], digits[len(digits)-2:]
	} else {
		cents = digits
	}
	dollars = strings.TrimLeft(dollars, "0")
	if dollars == "" {
		dollars = "0"
	}
	for len(cents) < 2 {
		cents = "0" + cents
	}
	return dollars + "." + cents
}

func mustAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
