package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func equalDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(t, want)) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

func percent(t *testing.T, s string) *decimal.Decimal {
	p := dec(t, s)
	return &p
}

func calcConfig(t *testing.T) Config {
	return Config{UnitPrice: dec(t, "1500"), CoveragePerUnit: dec(t, "10")}
}

func TestCalculate_AreaWithoutDiscount(t *testing.T) {
	result, err := Calculate(Area{Height: dec(t, "2.5"), Width: dec(t, "4")}, calcConfig(t), nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	equalDecimal(t, "area", result.Area, "10")
	equalDecimal(t, "paint", result.PaintVolume, "1")
	equalDecimal(t, "gross", result.GrossPrice, "15000")
	equalDecimal(t, "discountAmount", result.DiscountAmount, "0")
	equalDecimal(t, "discountPercent", result.DiscountPercent, "0")
	equalDecimal(t, "net", result.NetPrice, "15000")
	if result.MeasureKind != KindArea {
		t.Fatalf("kind = %q, want %q", result.MeasureKind, KindArea)
	}
}

func TestCalculate_AreaWithTenPercentDiscount(t *testing.T) {
	result, err := Calculate(Area{Height: dec(t, "2.5"), Width: dec(t, "4")}, calcConfig(t), percent(t, "10"))
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	equalDecimal(t, "discountAmount", result.DiscountAmount, "1500")
	equalDecimal(t, "discountPercent", result.DiscountPercent, "10")
	equalDecimal(t, "net", result.NetPrice, "13500")
	if !result.HasDiscount() {
		t.Fatalf("expected discount to be reported")
	}
}

func TestCalculate_LinearUsesLengthAsArea(t *testing.T) {
	result, err := Calculate(Linear{Length: dec(t, "8")}, calcConfig(t), nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	equalDecimal(t, "area", result.Area, "8")
	equalDecimal(t, "net", result.NetPrice, "12000")
	if result.MeasureKind != KindLinear {
		t.Fatalf("kind = %q, want %q", result.MeasureKind, KindLinear)
	}
}

func TestCalculate_NegativeMeasuresCountAsZero(t *testing.T) {
	result, err := Calculate(Area{Height: dec(t, "-3"), Width: dec(t, "4")}, calcConfig(t), nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	equalDecimal(t, "area", result.Area, "0")
	equalDecimal(t, "net", result.NetPrice, "0")
}

func TestCalculate_RoundsHalfUpOnce(t *testing.T) {
	cfg := Config{UnitPrice: dec(t, "3"), CoveragePerUnit: dec(t, "10")}

	result, err := Calculate(Linear{Length: dec(t, "0.5")}, cfg, nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	equalDecimal(t, "gross", result.GrossPrice, "1.5")
	equalDecimal(t, "net", result.NetPrice, "2")

	result, err = Calculate(Linear{Length: dec(t, "0.4")}, cfg, nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	equalDecimal(t, "net", result.NetPrice, "1")
}

func TestCalculate_DiscountMatchesRoundedFormula(t *testing.T) {
	cfg := calcConfig(t)
	for _, tc := range []struct {
		height, width, discount string
	}{
		{"3.3", "2.7", "15"},
		{"1.11", "7.9", "33.3"},
		{"0", "12", "50"},
		{"4", "4", "100"},
	} {
		result, err := Calculate(Area{Height: dec(t, tc.height), Width: dec(t, tc.width)}, cfg, percent(t, tc.discount))
		if err != nil {
			t.Fatalf("Calculate: %v", err)
		}
		factor := decimal.NewFromInt(1).Sub(dec(t, tc.discount).Div(decimal.NewFromInt(100)))
		want := result.GrossPrice.Mul(factor).Round(0)
		if !result.NetPrice.Equal(want) {
			t.Fatalf("net for %+v = %s, want %s", tc, result.NetPrice, want)
		}
		if result.NetPrice.IsNegative() {
			t.Fatalf("net for %+v is negative", tc)
		}
	}
}

func TestCalculate_DiscountIsClampedToHundred(t *testing.T) {
	result, err := Calculate(Linear{Length: dec(t, "2")}, calcConfig(t), percent(t, "150"))
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	equalDecimal(t, "discountPercent", result.DiscountPercent, "100")
	equalDecimal(t, "net", result.NetPrice, "0")
}

func TestCalculate_PaintVolumeTimesCoverageIsArea(t *testing.T) {
	cfg := Config{UnitPrice: dec(t, "1500"), CoveragePerUnit: dec(t, "7")}
	result, err := Calculate(Area{Height: dec(t, "2.35"), Width: dec(t, "3.1")}, cfg, nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	back := result.PaintVolume.Mul(cfg.CoveragePerUnit)
	if back.Sub(result.Area).Abs().GreaterThan(dec(t, "0.000001")) {
		t.Fatalf("paint*coverage = %s, area = %s", back, result.Area)
	}
}

func TestCalculate_ZeroCoverageIsRejected(t *testing.T) {
	_, err := Calculate(Linear{Length: dec(t, "2")}, Config{UnitPrice: dec(t, "1")}, nil)
	if !errors.Is(err, ErrCoverageNotPositive) {
		t.Fatalf("err = %v, want ErrCoverageNotPositive", err)
	}
}

func TestCalculation_SnapshotIsIndependentValue(t *testing.T) {
	original, err := Calculate(Area{Height: dec(t, "2.5"), Width: dec(t, "4")}, calcConfig(t), percent(t, "10"))
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	snap := original.Snapshot()

	equalDecimal(t, "net", snap.NetPrice, "13500")
	equalDecimal(t, "area", snap.Area, "10")
	equalDecimal(t, "discountAmount", snap.DiscountAmount, "1500")
	if snap.MeasureKind != original.MeasureKind {
		t.Fatalf("kind = %q, want %q", snap.MeasureKind, original.MeasureKind)
	}
}

func TestParseMeasurement_PermissiveInput(t *testing.T) {
	m := ParseMeasurement(KindArea, "2,5", "abc", "")
	area, ok := m.(Area)
	if !ok {
		t.Fatalf("expected Area, got %T", m)
	}
	equalDecimal(t, "height", area.Height, "2.5")
	equalDecimal(t, "width", area.Width, "0")

	m = ParseMeasurement(ParseMeasureKind("ml"), "", "", "-4")
	linear, ok := m.(Linear)
	if !ok {
		t.Fatalf("expected Linear, got %T", m)
	}
	equalDecimal(t, "length", linear.Length, "0")
}

func TestParseAmount(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"1500", "1500"},
		{" 3.75 ", "3.75"},
		{"2,5", "2.5"},
		{".5", "0.5"},
		{"-4", "-4"},
		{"12345678901234567890", "12345678901234567890"},
		{"123456789012345678901", "0"},
		{"1e3", "0"},
		{"1E-9", "0"},
		{"1e5000000", "0"},
		{"1e2000000000", "0"},
		{"2.5e-2000000000", "0"},
		{"0x10", "0"},
		{"1.500,50", "0"},
		{"abc", "0"},
	} {
		equalDecimal(t, tc.in, ParseAmount(tc.in), tc.want)
	}
}

func TestCalculate_HugeExponentInputCountsAsZero(t *testing.T) {
	result, err := Calculate(ParseMeasurement(KindArea, "1e5000000", "1", ""), calcConfig(t), nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	equalDecimal(t, "area", result.Area, "0")
	equalDecimal(t, "net", result.NetPrice, "0")
}

func TestParseDiscount_DisabledIsNil(t *testing.T) {
	if ParseDiscount(false, "25") != nil {
		t.Fatalf("expected nil discount when disabled")
	}
	p := ParseDiscount(true, "25")
	if p == nil {
		t.Fatalf("expected discount")
	}
	equalDecimal(t, "discount", *p, "25")
}
