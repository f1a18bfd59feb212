package app

import (
	"context"
	"fmt"

	"github.com/Simplici0/pintorpro/internal/document"
	"github.com/Simplici0/pintorpro/internal/estimate"
	"github.com/Simplici0/pintorpro/internal/export"
	"github.com/Simplici0/pintorpro/internal/pricing"
)

// Measurement is the raw calculator input as typed by the contractor.
type Measurement struct {
	Kind            pricing.MeasureKind
	Height          string
	Width           string
	Length          string
	DiscountEnabled bool
	DiscountPercent string
}

// QuoteRequest is a filled-in estimate form. A non-zero ID edits the
// estimate with that id.
type QuoteRequest struct {
	ID          int64
	Client      estimate.ClientInfo
	Measurement Measurement
	LineItems   []estimate.LineItem
}

// Calculate prices a measurement with the stored pricing settings.
func (a *App) Calculate(ctx context.Context, m Measurement) (pricing.Calculation, error) {
	input := pricing.ParseMeasurement(m.Kind, m.Height, m.Width, m.Length)
	discount := pricing.ParseDiscount(m.DiscountEnabled, m.DiscountPercent)
	return pricing.Calculate(input, a.Settings.Pricing(ctx), discount)
}

// SaveQuote calculates, builds and stores an estimate. Editing keeps the
// estimate's id and creation date.
func (a *App) SaveQuote(ctx context.Context, req QuoteRequest) (estimate.Estimate, error) {
	calc, err := a.Calculate(ctx, req.Measurement)
	if err != nil {
		return estimate.Estimate{}, err
	}

	draft := estimate.Draft{
		Client:      req.Client,
		Calculation: calc,
		LineItems:   req.LineItems,
	}
	if req.ID != 0 {
		prev, ok := a.History.Get(ctx, req.ID)
		if !ok {
			return estimate.Estimate{}, fmt.Errorf("estimate %d: %w", req.ID, estimate.ErrNotFound)
		}
		draft.ID = prev.ID
		draft.CreatedDate = prev.CreatedDate
	}

	e, err := a.Builder.Build(draft)
	if err != nil {
		return estimate.Estimate{}, err
	}
	if err := a.History.Upsert(ctx, e); err != nil {
		return estimate.Estimate{}, err
	}
	return e, nil
}

// Selection resolves ids to stored estimates in history order. An empty id
// list is a validation error and a list matching nothing is ErrNotFound.
func (a *App) Selection(ctx context.Context, ids []int64) ([]estimate.Estimate, error) {
	if len(ids) == 0 {
		return nil, &estimate.ValidationError{Field: "ids", Err: estimate.ErrEmptySelection}
	}
	list := a.History.GetMany(ctx, ids)
	if len(list) == 0 {
		return nil, estimate.ErrNotFound
	}
	return list, nil
}

// Document renders the selected estimates with the current company profile.
func (a *App) Document(ctx context.Context, ids []int64) (*document.Document, error) {
	list, err := a.Selection(ctx, ids)
	if err != nil {
		return nil, err
	}
	return a.Renderer.Render(list, a.Settings.Company(ctx))
}

// Workbook exports the selected estimates, or the whole history when ids is
// empty, as an XLSX file. The returned name is the suggested file name.
func (a *App) Workbook(ctx context.Context, ids []int64) ([]byte, string, error) {
	list := a.History.List(ctx)
	if len(ids) > 0 {
		var err error
		if list, err = a.Selection(ctx, ids); err != nil {
			return nil, "", err
		}
	}
	data, err := export.HistoryWorkbook(list)
	if err != nil {
		return nil, "", err
	}
	return data, "Presupuestos_" + a.now().Format("2006-01-02") + ".xlsx", nil
}
