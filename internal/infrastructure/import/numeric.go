package sheetimport

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// SafeParse converts a spreadsheet cell into an optional number.
// Blank or unparsable input yields nil. A decimal comma is accepted, and
// when present, dots grouping the integer part in threes are dropped ("1.234,56").
func SafeParse(v any) *float64 {
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return ptr(float64(n))
	case int32:
		return ptr(float64(n))
	case int64:
		return ptr(float64(n))
	case uint:
		return ptr(float64(n))
	case uint32:
		return ptr(float64(n))
	case uint64:
		return ptr(float64(n))
	case decimal.Decimal:
		return ptr(n.InexactFloat64())
	case string:
		return parseString(n)
	case []byte:
		return parseString(string(n))
	}
	return nil
}

func parseString(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(stripThousands(s), ",", "."))
	if err != nil {
		return nil
	}
	return finite(d.InexactFloat64())
}

// stripThousands removes pt-BR thousands separators from s. Anything that is
// not a well-formed "d.ddd,dd" group is returned unchanged.
func stripThousands(s string) string {
	comma := strings.IndexByte(s, ',')
	if comma < 0 || !strings.Contains(s[:comma], ".") {
		return s
	}
	groups := strings.Split(strings.TrimLeft(s[:comma], "+-"), ".")
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return s
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return s
		}
	}
	return strings.ReplaceAll(s[:comma], ".", "") + s[comma:]
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return ptr(f)
}

func ptr(f float64) *float64 {
	return &f
}
