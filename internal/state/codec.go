package state

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/pintorpro/internal/estimate"
	"github.com/Simplici0/pintorpro/internal/pricing"
)

// The document layout matches what the browser version kept in localStorage,
// so snapshots exported from it load unchanged.

type snapshotDoc struct {
	Users     json.RawMessage  `json:"users,omitempty"`
	Estimates []estimateRecord `json:"estimates"`
	Settings  settingsRecord   `json:"settings"`
}

type settingsRecord struct {
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	Coverage     decimal.Decimal `json:"coverage"`
	Theme        json.RawMessage `json:"theme,omitempty"`
	Company      companyRecord   `json:"company"`
}

type companyRecord struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Logo    string `json:"logo"`
}

type estimateRecord struct {
	ID       int64           `json:"id"`
	Date     string          `json:"date"`
	Client   string          `json:"client"`
	Address  string          `json:"address"`
	Phone    string          `json:"phone"`
	BaseCalc calcRecord      `json:"baseCalc"`
	Extras   []extraRecord   `json:"extras"`
	Total    decimal.Decimal `json:"total"`
}

type calcRecord struct {
	Area            decimal.Decimal `json:"area"`
	Paint           decimal.Decimal `json:"paint"`
	Price           decimal.Decimal `json:"price"`
	IsML            bool            `json:"isML"`
	GrossPrice      decimal.Decimal `json:"grossPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
}

type extraRecord struct {
	Desc  string          `json:"desc"`
	Price decimal.Decimal `json:"price"`
}

// DecodeReport describes records dropped while decoding.
type DecodeReport struct {
	Malformed  int
	Duplicates int
}

// Decode parses a stored snapshot. Records without an id or client name and
// repeated ids are dropped and counted in the report. Settings that are
// missing or not positive fall back to the defaults.
func Decode(data []byte) (RawState, DecodeReport, error) {
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return RawState{}, DecodeReport{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	st := Default()
	st.Users = doc.Users
	st.Settings.Theme = doc.Settings.Theme

	defaults := pricing.DefaultConfig()
	if doc.Settings.PricePerUnit.IsPositive() {
		st.Settings.Pricing.UnitPrice = doc.Settings.PricePerUnit
	} else {
		st.Settings.Pricing.UnitPrice = defaults.UnitPrice
	}
	if doc.Settings.Coverage.IsPositive() {
		st.Settings.Pricing.CoveragePerUnit = doc.Settings.Coverage
	} else {
		st.Settings.Pricing.CoveragePerUnit = defaults.CoveragePerUnit
	}

	c := doc.Settings.Company
	st.Settings.Company = estimate.CompanyProfile{
		Name:    c.Name,
		Address: c.Address,
		Phone:   c.Phone,
		Email:   c.Email,
		Logo:    decodeDataURL(c.Logo),
	}
	if st.Settings.Company.Name == "" && c.Logo == "" && c.Address == "" && c.Phone == "" {
		st.Settings.Company.Name = DefaultCompanyName
	}

	var report DecodeReport
	seen := make(map[int64]struct{}, len(doc.Estimates))
	for _, rec := range doc.Estimates {
		e := rec.toEstimate()
		if e.Validate() != nil {
			report.Malformed++
			continue
		}
		if _, dup := seen[e.ID]; dup {
			report.Duplicates++
			continue
		}
		seen[e.ID] = struct{}{}
		st.Estimates = append(st.Estimates, e)
	}

	return st, report, nil
}

// Encode serialises st in the stored document layout.
func Encode(st RawState) ([]byte, error) {
	doc := snapshotDoc{
		Users:     st.Users,
		Estimates: make([]estimateRecord, 0, len(st.Estimates)),
		Settings: settingsRecord{
			PricePerUnit: st.Settings.Pricing.UnitPrice,
			Coverage:     st.Settings.Pricing.CoveragePerUnit,
			Theme:        st.Settings.Theme,
			Company: companyRecord{
				Name:    st.Settings.Company.Name,
				Address: st.Settings.Company.Address,
				Phone:   st.Settings.Company.Phone,
				Email:   st.Settings.Company.Email,
				Logo:    encodeDataURL(st.Settings.Company.Logo),
			},
		},
	}
	for _, e := range st.Estimates {
		doc.Estimates = append(doc.Estimates, fromEstimate(e))
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode state snapshot: %w", err)
	}
	return data, nil
}

func (r estimateRecord) toEstimate() estimate.Estimate {
	kind := pricing.KindArea
	if r.BaseCalc.IsML {
		kind = pricing.KindLinear
	}
	gross := r.BaseCalc.GrossPrice
	if gross.IsZero() {
		gross = r.BaseCalc.Price.Add(r.BaseCalc.DiscountAmount)
	}

	e := estimate.Estimate{
		ID:          r.ID,
		CreatedDate: r.Date,
		Client: estimate.ClientInfo{
			Name:    r.Client,
			Address: r.Address,
			Phone:   r.Phone,
		},
		Calculation: pricing.Calculation{
			Area:            r.BaseCalc.Area,
			PaintVolume:     r.BaseCalc.Paint,
			MeasureKind:     kind,
			GrossPrice:      gross,
			DiscountPercent: r.BaseCalc.DiscountPercent,
			DiscountAmount:  r.BaseCalc.DiscountAmount,
			NetPrice:        r.BaseCalc.Price,
		},
		LineItems: make([]estimate.LineItem, 0, len(r.Extras)),
		Total:     r.Total,
	}
	for _, x := range r.Extras {
		e.LineItems = append(e.LineItems, estimate.LineItem{Description: x.Desc, Amount: x.Price})
	}
	return e
}

func fromEstimate(e estimate.Estimate) estimateRecord {
	c := e.Calculation
	rec := estimateRecord{
		ID:      e.ID,
		Date:    e.CreatedDate,
		Client:  e.Client.Name,
		Address: e.Client.Address,
		Phone:   e.Client.Phone,
		BaseCalc: calcRecord{
			Area:            c.Area,
			Paint:           c.PaintVolume,
			Price:           c.NetPrice,
			IsML:            c.MeasureKind == pricing.KindLinear,
			GrossPrice:      c.GrossPrice,
			DiscountPercent: c.DiscountPercent,
			DiscountAmount:  c.DiscountAmount,
		},
		Extras: make([]extraRecord, 0, len(e.LineItems)),
		Total:  e.Total,
	}
	for _, li := range e.LineItems {
		rec.Extras = append(rec.Extras, extraRecord{Desc: li.Description, Price: li.Amount})
	}
	return rec
}

func decodeDataURL(s string) []byte {
	if s == "" {
		return nil
	}
	payload := s
	if strings.HasPrefix(s, "data:") {
		_, after, ok := strings.Cut(s, ",")
		if !ok {
			return nil
		}
		payload = after
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil
	}
	return b
}

func encodeDataURL(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return "data:" + http.DetectContentType(b) + ";base64," + base64.StdEncoding.EncodeToString(b)
}
