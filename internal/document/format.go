package document

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/pintorpro/internal/estimate"
)

// DefaultNumberFormat groups thousands with a dot, as contractors write
// amounts in Spanish-speaking locales.
const DefaultNumberFormat = "#.###,"

// NumberFormat formats money and quantities with a humanize format string
// of the form "#T###D", T being the thousands separator and D the decimal
// separator.
type NumberFormat struct {
	pattern string
	decimal string
}

// NewNumberFormat parses a humanize pattern such as "#.###," or "#,###.".
// An unusable pattern falls back to DefaultNumberFormat.
func NewNumberFormat(pattern string) NumberFormat {
	if len(pattern) != 6 || pattern[0] != '#' || pattern[2:5] != "###" ||
		strings.ContainsAny(pattern[1:2]+pattern[5:6], "#0") {
		pattern = DefaultNumberFormat
	}
	return NumberFormat{pattern: pattern, decimal: pattern[5:6]}
}

var maxInt = decimal.NewFromInt(math.MaxInt)

// Money formats an amount as a whole currency value, e.g. "$15.000".
func (f NumberFormat) Money(amount decimal.Decimal) string {
	n := amount.Round(0)
	if n.IsNegative() {
		return "-$" + f.group(n.Abs())
	}
	return "$" + f.group(n)
}

// group inserts thousands separators into a non-negative whole number.
// Values past the int range go through big.Int.
func (f NumberFormat) group(whole decimal.Decimal) string {
	if whole.LessThanOrEqual(maxInt) {
		return humanize.FormatInteger(f.pattern, int(whole.IntPart()))
	}
	return strings.ReplaceAll(humanize.BigComma(whole.BigInt()), ",", f.pattern[1:2])
}

// NegativeMoney formats amount as a deduction, e.g. "-$1.500".
func (f NumberFormat) NegativeMoney(amount decimal.Decimal) string {
	return f.Money(amount.Abs().Neg())
}

// Quantity formats a measured quantity with at most two decimals.
func (f NumberFormat) Quantity(q decimal.Decimal) string {
	q = q.Round(2)
	sign := ""
	if q.IsNegative() {
		sign = "-"
		q = q.Abs()
	}
	whole := q.Truncate(0)
	out := sign + f.group(whole)
	frac := q.Sub(whole)
	if frac.IsZero() {
		return out
	}
	digits := strings.TrimPrefix(frac.StringFixed(2), "0.")
	return out + f.decimal + strings.TrimRight(digits, "0")
}

// FileName names the exported artifact: the client's name for a single
// estimate, the export date for a batch.
func FileName(estimates []estimate.Estimate, exportedAt time.Time) string {
	if len(estimates) == 1 {
		if name := alnum(estimates[0].Client.Name); name != "" {
			return "Presupuesto_" + name + ".pdf"
		}
		return "Presupuesto_" + exportedAt.Format("2006-01-02") + ".pdf"
	}
	return "Presupuestos_" + exportedAt.Format("2006-01-02") + ".pdf"
}

func alnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
