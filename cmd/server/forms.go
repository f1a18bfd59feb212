package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/pintorpro/internal/app"
	"github.com/Simplici0/pintorpro/internal/estimate"
	"github.com/Simplici0/pintorpro/internal/pricing"
)

const maxLogoBytes = 2 << 20

// formError is a malformed request value; its message is shown to the user.
type formError struct {
	msg string
}

func (e *formError) Error() string {
	return e.msg
}

func badRequest(format string, args ...any) error {
	return &formError{msg: fmt.Sprintf(format, args...)}
}

func parseMeasurementForm(r *http.Request) app.Measurement {
	return app.Measurement{
		Kind:            pricing.ParseMeasureKind(r.FormValue("kind")),
		Height:          r.FormValue("height"),
		Width:           r.FormValue("width"),
		Length:          r.FormValue("length"),
		DiscountEnabled: isChecked(r.FormValue("discount_enabled")),
		DiscountPercent: r.FormValue("discount_percent"),
	}
}

// parseQuoteForm reads the estimate form. Extra items come as repeated
// extra_desc / extra_price fields paired by position.
func parseQuoteForm(r *http.Request) app.QuoteRequest {
	req := app.QuoteRequest{
		Client: estimate.ClientInfo{
			Name:    r.FormValue("client_name"),
			Address: r.FormValue("client_address"),
			Phone:   r.FormValue("client_phone"),
		},
		Measurement: parseMeasurementForm(r),
	}

	descs := r.Form["extra_desc"]
	prices := r.Form["extra_price"]
	n := len(descs)
	if len(prices) > n {
		n = len(prices)
	}
	for i := 0; i < n; i++ {
		var li estimate.LineItem
		if i < len(descs) {
			li.Description = descs[i]
		}
		if i < len(prices) {
			li.Amount = pricing.ParseAmount(prices[i])
		}
		req.LineItems = append(req.LineItems, li)
	}
	return req
}

func parseIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("id de presupuesto inválido")
	}
	return id, nil
}

// parseIDs collects ids from repeated "id" fields and comma separated "ids".
func parseIDs(r *http.Request) ([]int64, error) {
	raw := append([]string(nil), r.Form["id"]...)
	for _, list := range r.Form["ids"] {
		raw = append(raw, strings.Split(list, ",")...)
	}

	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return nil, badRequest("id de presupuesto inválido: %q", v)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// readLogo returns the uploaded logo, or nil when no file was sent.
func readLogo(r *http.Request) ([]byte, error) {
	file, _, err := r.FormFile("logo")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, badRequest("logo inválido")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxLogoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	if len(data) > maxLogoBytes {
		return nil, badRequest("el logo supera los %d MB", maxLogoBytes>>20)
	}
	return data, nil
}

func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes", "si", "sí":
		return true
	}
	return false
}
