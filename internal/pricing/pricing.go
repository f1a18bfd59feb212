package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrCoverageNotPositive is returned when the paint coverage would divide by zero.
var ErrCoverageNotPositive = errors.New("coverage per unit must be greater than zero")

var hundred = decimal.NewFromInt(100)

// Config represents the global pricing parameters shared across calculations.
type Config struct {
	UnitPrice       decimal.Decimal `json:"unit_price"`
	CoveragePerUnit decimal.Decimal `json:"coverage_per_unit"`
}

// DefaultConfig returns the pricing used before the contractor saves settings.
func DefaultConfig() Config {
	return Config{
		UnitPrice:       decimal.NewFromInt(1500),
		CoveragePerUnit: decimal.NewFromInt(10),
	}
}

// Valid reports whether both parameters are strictly positive.
func (c Config) Valid() bool {
	return c.UnitPrice.IsPositive() && c.CoveragePerUnit.IsPositive()
}

// Equal reports whether both configs hold the same values.
func (c Config) Equal(other Config) bool {
	return c.UnitPrice.Equal(other.UnitPrice) && c.CoveragePerUnit.Equal(other.CoveragePerUnit)
}

// Calculation contains the billable quantities derived from one measurement.
type Calculation struct {
	Area            decimal.Decimal `json:"area"`
	PaintVolume     decimal.Decimal `json:"paint_volume"`
	MeasureKind     MeasureKind     `json:"measure_kind"`
	GrossPrice      decimal.Decimal `json:"gross_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	NetPrice        decimal.Decimal `json:"net_price"`
}

// Snapshot returns a copy of c that shares no state with the original.
func (c Calculation) Snapshot() Calculation {
	return Calculation{
		Area:            decimal.NewFromBigInt(c.Area.Coefficient(), c.Area.Exponent()),
		PaintVolume:     decimal.NewFromBigInt(c.PaintVolume.Coefficient(), c.PaintVolume.Exponent()),
		MeasureKind:     c.MeasureKind,
		GrossPrice:      decimal.NewFromBigInt(c.GrossPrice.Coefficient(), c.GrossPrice.Exponent()),
		DiscountPercent: decimal.NewFromBigInt(c.DiscountPercent.Coefficient(), c.DiscountPercent.Exponent()),
		DiscountAmount:  decimal.NewFromBigInt(c.DiscountAmount.Coefficient(), c.DiscountAmount.Exponent()),
		NetPrice:        decimal.NewFromBigInt(c.NetPrice.Coefficient(), c.NetPrice.Exponent()),
	}
}

// HasDiscount reports whether a positive discount was applied.
func (c Calculation) HasDiscount() bool {
	return c.DiscountAmount.IsPositive()
}

// Calculate computes area, paint volume and price for a measurement.
// A nil discountPercent means discounting is disabled.
func Calculate(input MeasurementInput, cfg Config, discountPercent *decimal.Decimal) (Calculation, error) {
	if !cfg.CoveragePerUnit.IsPositive() {
		return Calculation{}, ErrCoverageNotPositive
	}

	var area decimal.Decimal
	kind := KindArea
	if input != nil {
		area = nonNegative(input.area())
		kind = input.Kind()
	}

	gross := area.Mul(cfg.UnitPrice)

	percent := decimal.Zero
	discount := decimal.Zero
	if discountPercent != nil {
		percent = clampPercent(*discountPercent)
		discount = gross.Mul(percent).Div(hundred)
	}

	net := nonNegative(gross.Sub(discount)).Round(0)

	return Calculation{
		Area:            area,
		PaintVolume:     area.Div(cfg.CoveragePerUnit),
		MeasureKind:     kind,
		GrossPrice:      gross,
		DiscountPercent: percent,
		DiscountAmount:  discount,
		NetPrice:        net,
	}, nil
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func clampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}
