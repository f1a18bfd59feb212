package pricing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MeasureKind identifies how a job is measured.
type MeasureKind string

const (
	KindArea   MeasureKind = "area"
	KindLinear MeasureKind = "linear"
)

// Unit returns the label printed next to a quantity of this kind.
func (k MeasureKind) Unit() string {
	if k == KindLinear {
		return "ML"
	}
	return "m²"
}

// ParseMeasureKind maps a form value to a MeasureKind, defaulting to area.
func ParseMeasureKind(raw string) MeasureKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "linear", "ml", "1", "true", "on":
		return KindLinear
	default:
		return KindArea
	}
}

// MeasurementInput is a raw measurement taken on site. Only Area and Linear
// implement it.
type MeasurementInput interface {
	Kind() MeasureKind
	area() decimal.Decimal
}

// Area is a wall or ceiling measured by height and width.
type Area struct {
	Height decimal.Decimal
	Width  decimal.Decimal
}

func (Area) Kind() MeasureKind { return KindArea }

func (a Area) area() decimal.Decimal {
	return nonNegative(a.Height).Mul(nonNegative(a.Width))
}

// Linear is trim or baseboard work priced by length.
type Linear struct {
	Length decimal.Decimal
}

func (Linear) Kind() MeasureKind { return KindLinear }

func (l Linear) area() decimal.Decimal {
	return nonNegative(l.Length)
}

// ParseMeasurement builds a measurement from raw form values. Missing,
// non-numeric and negative values count as zero.
func ParseMeasurement(kind MeasureKind, height, width, length string) MeasurementInput {
	if kind == KindLinear {
		return Linear{Length: ParseQuantity(length)}
	}
	return Area{Height: ParseQuantity(height), Width: ParseQuantity(width)}
}

// ParseQuantity parses a non-negative number, returning zero for anything else.
func ParseQuantity(raw string) decimal.Decimal {
	return nonNegative(ParseAmount(raw))
}

// maxAmountLen bounds what a form field may hold, sign and separator included.
const maxAmountLen = 20

// amountPattern accepts plain decimal notation only; exponents are rejected.
var amountPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// ParseAmount parses a number typed into a form. A comma is accepted as the
// decimal separator. Invalid input, exponent notation and values longer than
// maxAmountLen yield zero.
func ParseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxAmountLen {
		return decimal.Zero
	}
	if !strings.Contains(raw, ".") {
		raw = strings.Replace(raw, ",", ".", 1)
	}
	if !amountPattern.MatchString(raw) {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return value
}

// ParseDiscount returns nil when discounting is disabled, otherwise the parsed percent.
func ParseDiscount(enabled bool, raw string) *decimal.Decimal {
	if !enabled {
		return nil
	}
	p := clampPercent(ParseAmount(raw))
	return &p
}
