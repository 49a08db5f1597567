// Package money converts between integer cents, zero or more loosely
// formatted inputs, and display strings. All arithmetic elsewhere in the
// service works on cents; the formatted string is presentation only.
package money

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Parse normalizes a currency-formatted string into cents.
// Symbols, grouping commas and whitespace are stripped; unparsable input
// yields 0 so a cosmetic formatting glitch never blocks a ledger write.
func Parse(s string) int64 {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, s)

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// ParseAny accepts the loose amount representations seen at the API
// boundary: JSON numbers, numeric strings, and formatted currency strings.
func ParseAny(v any) int64 {
	switch a := v.(type) {
	case nil:
		return 0
	case float64:
		return decimal.NewFromFloat(a).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	case int64:
		return a * 100
	case json.Number:
		return Parse(a.String())
	case string:
		return Parse(a)
	default:
		return 0
	}
}

// Formatter renders cents in the deployment's fixed currency.
type Formatter struct {
	unit    currency.Unit
	printer *message.Printer
}

func NewFormatter(code string) (*Formatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, err
	}

	return &Formatter{
		unit:    unit,
		printer: message.NewPrinter(language.English),
	}, nil
}

func (f *Formatter) Format(cents int64) string {
	v, _ := decimal.New(cents, -2).Float64()
	return f.printer.Sprintf("%v", currency.NarrowSymbol(f.unit.Amount(v)))
}
