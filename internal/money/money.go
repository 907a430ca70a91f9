package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Package money formats and converts amounts held as int64 minor units.

var (
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrAmountOutOfRange    = errors.New("amount out of range")
)

// MaxAmount bounds amounts in minor units. Below it float64 holds every major
// amount exactly to four fraction digits, so formatting and conversion stay exact.
const MaxAmount int64 = 1_000_000_000_000_000

func checkRange(amountMinor int64) error {
	if amountMinor > MaxAmount || amountMinor < -MaxAmount {
		return fmt.Errorf("%w: %d", ErrAmountOutOfRange, amountMinor)
	}
	return nil
}

// ParseCurrency validates an ISO 4217 code and returns its canonical unit.
func ParseCurrency(code string) (currency.Unit, error) {
	code = strings.TrimSpace(code)
	if len(code) != 3 {
		return currency.Unit{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	u, err := currency.ParseISO(code)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	return u, nil
}

// Scale returns the number of fraction digits the currency uses in everyday amounts.
func Scale(u currency.Unit) int {
	scale, _ := currency.Standard.Rounding(u)
	return scale
}

// ParseLocale returns the language tag for s, falling back to English.
func ParseLocale(s string) language.Tag {
	if s == "" {
		return language.English
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return tag
}

// Format renders amountMinor as "<ISO> <number>" using the grouping and decimal
// separators of tag, e.g. "USD 1,234.50" or "JPY 1,234" for English.
func Format(amountMinor int64, code string, tag language.Tag) (string, error) {
	u, err := ParseCurrency(code)
	if err != nil {
		return "", err
	}
	if err := checkRange(amountMinor); err != nil {
		return "", err
	}
	scale := Scale(u)
	value := float64(amountMinor) / math.Pow10(scale)

	p := message.NewPrinter(tag)
	return u.String() + " " + p.Sprint(number.Decimal(value, number.Scale(scale))), nil
}

// MustFormat is Format for callers that already validated the currency. Invalid codes
// and out of range amounts render the raw minor amount.
func MustFormat(amountMinor int64, code string, tag language.Tag) string {
	s, err := Format(amountMinor, code, tag)
	if err != nil {
		return fmt.Sprintf("%s %d", strings.ToUpper(code), amountMinor)
	}
	return s
}

// ToMinor converts a major-unit amount such as 12.34 into minor units, rounding half away from zero.
func ToMinor(amount float64, code string) (int64, error) {
	u, err := ParseCurrency(code)
	if err != nil {
		return 0, err
	}
	minor := math.Round(amount * math.Pow10(Scale(u)))
	if math.IsNaN(minor) || math.Abs(minor) > float64(MaxAmount) {
		return 0, fmt.Errorf("%w: %g", ErrAmountOutOfRange, amount)
	}
	return int64(minor), nil
}

// FromMinor converts minor units into a major-unit amount.
func FromMinor(amountMinor int64, code string) (float64, error) {
	u, err := ParseCurrency(code)
	if err != nil {
		return 0, err
	}
	if err := checkRange(amountMinor); err != nil {
		return 0, err
	}
	return float64(amountMinor) / math.Pow10(Scale(u)), nil
}
