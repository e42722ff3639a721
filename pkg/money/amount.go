package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// CleanAmountString normalizes free-form amount input ("28 DH", "28,00 dh",
// "1.234,50 MAD") into a plain decimal string. It returns "" when the input
// cannot be read as a number; callers must treat "" as invalid input rather
// than coercing it to zero.
func CleanAmountString(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}
	negative := strings.HasPrefix(s, "-")

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && !hasDot:
		// Locale convention: the comma is the decimal separator.
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma && hasDot:
		// European grouping, "1.234,50": dots group thousands, the comma is
		// the decimal mark.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	default:
		s = strings.ReplaceAll(s, ",", "")
	}

	// Strip currency codes, symbols and anything else that is not a digit.
	// Only the first dot survives as the decimal point.
	var b strings.Builder
	dotSeen := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !dotSeen:
			dotSeen = true
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "." {
		return ""
	}
	if negative {
		cleaned = "-" + cleaned
	}
	if _, err := decimal.NewFromString(cleaned); err != nil {
		return ""
	}
	return cleaned
}

// ParseAmount parses free-form amount input into a decimal value.
func ParseAmount(input string) (decimal.Decimal, error) {
	cleaned := CleanAmountString(input)
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}
	return amount, nil
}

// ParsePositiveAmount parses amount input and rejects zero and negative values.
func ParsePositiveAmount(input string) (decimal.Decimal, error) {
	amount, err := ParseAmount(input)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidAmount, amount)
	}
	return amount, nil
}
