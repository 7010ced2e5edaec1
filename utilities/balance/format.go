package balance

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatFloat goes through int64, so larger magnitudes take the Commaf path.
const maxFormattable = float64(math.MaxInt64)

// commaInt renders a whole number with thousands separators (1,234,567).
func commaInt(v float64) string {
	switch {
	case math.IsInf(v, 0) || math.IsNaN(v):
		return humanize.Ftoa(v)
	case math.Abs(v) >= maxFormattable:
		return humanize.Commaf(math.Round(v))
	}
	return humanize.FormatFloat("#,###.", v)
}

// commaFloat renders one decimal place with thousands separators (1,234.5).
func commaFloat(v float64) string {
	switch {
	case math.IsInf(v, 0) || math.IsNaN(v):
		return humanize.Ftoa(v)
	case math.Abs(v) >= maxFormattable:
		return humanize.Commaf(math.Round(v)) + ".0"
	}
	return humanize.FormatFloat("#,###.#", v)
}

// rule returns the 80-column separator used between report sections.
func rule(ch string) string {
	return strings.Repeat(ch, 80)
}
