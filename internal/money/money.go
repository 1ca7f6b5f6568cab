// Package money parses and displays currency amounts.
//
// Amounts are carried as decimal.Decimal everywhere so sums never drift. Rounding
// only happens at display time.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Parse reads a human-entered amount such as "1,250.50", "₹ 5,000" or "-80".
// Grouping commas, spaces and currency symbols are ignored; a dot is the decimal separator.
func Parse(s string) (decimal.Decimal, error) {
	var b strings.Builder

	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == ',', r == ' ', r == '\u00a0':
		default:
			if r > 0x7f {
				// currency symbols
				continue
			}

			return decimal.Zero, ErrInvalidAmount
		}
	}

	clean := b.String()
	if clean == "" || clean == "-" {
		return decimal.Zero, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}

	return d, nil
}

// Formatter renders amounts with locale-specific grouping, a currency symbol and no fraction digits.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter builds a formatter for a BCP 47 locale such as "en-IN". Unparseable locales fall back to English.
func NewFormatter(locale, symbol string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}

	return &Formatter{
		printer: message.NewPrinter(tag),
		symbol:  symbol,
	}
}

// Format rounds to a whole amount first, so values that round to zero never carry a sign.
func (f *Formatter) Format(d decimal.Decimal) string {
	whole := d.Round(0)

	sign := ""
	if whole.IsNegative() {
		sign = "-"
		whole = whole.Neg()
	}

	return sign + f.symbol + f.printer.Sprint(number.Decimal(whole.IntPart()))
}

// Percent renders a percentage with one fraction digit and an explicit sign, e.g. "+12.5%".
func (f *Formatter) Percent(d decimal.Decimal) string {
	r := d.Round(1)

	s := r.StringFixed(1)
	if r.IsPositive() {
		s = "+" + s
	}

	return s + "%"
}
