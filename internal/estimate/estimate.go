// Package estimate holds the quote records offered to clients and the builder
// that turns a calculation plus client data into one.
package estimate

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/pintorpro/internal/pricing"
)

// DateLayout is the format of Estimate.CreatedDate.
const DateLayout = "02/01/2006"

// ClientInfo identifies who the estimate is addressed to.
type ClientInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// LineItem is an extra billable task appended to an estimate.
type LineItem struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Blank reports whether the item carries neither a description nor an amount.
func (li LineItem) Blank() bool {
	return strings.TrimSpace(li.Description) == "" && li.Amount.IsZero()
}

// Estimate is a saved quote. Records are replaced as a whole on edit.
type Estimate struct {
	ID          int64               `json:"id"`
	CreatedDate string              `json:"created_date"`
	Client      ClientInfo          `json:"client"`
	Calculation pricing.Calculation `json:"calculation"`
	LineItems   []LineItem          `json:"line_items"`
	Total       decimal.Decimal     `json:"total"`
}

// ExtrasTotal returns the sum of all line item amounts.
func (e Estimate) ExtrasTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, li := range e.LineItems {
		sum = sum.Add(li.Amount)
	}
	return sum
}

// Clone returns a deep copy of e.
func (e Estimate) Clone() Estimate {
	out := e
	out.Calculation = e.Calculation.Snapshot()
	if e.LineItems != nil {
		out.LineItems = make([]LineItem, len(e.LineItems))
		copy(out.LineItems, e.LineItems)
	}
	return out
}

// Validate checks the fields every stored estimate must carry.
func (e Estimate) Validate() error {
	if e.ID == 0 {
		return &ValidationError{Field: "id", Err: ErrMissingID}
	}
	if strings.TrimSpace(e.Client.Name) == "" {
		return &ValidationError{Field: "client.name", Err: ErrMissingClientName}
	}
	return nil
}

// CompanyProfile is the contractor's letterhead printed on every document.
type CompanyProfile struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Logo    []byte `json:"-"`
}

// HasLogo reports whether a logo image is configured.
func (c CompanyProfile) HasLogo() bool {
	return len(c.Logo) > 0
}
