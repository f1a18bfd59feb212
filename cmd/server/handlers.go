package main

import (
	"bytes"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/Simplici0/pintorpro/internal/document"
	"github.com/Simplici0/pintorpro/internal/estimate"
	"github.com/Simplici0/pintorpro/internal/pricing"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type estimatesResponse struct {
	Query     string              `json:"query"`
	Estimates []estimate.Estimate `json:"estimates"`
}

type settingsResponse struct {
	Pricing pricing.Config  `json:"pricing"`
	Company companyResponse `json:"company"`
}

type companyResponse struct {
	estimate.CompanyProfile
	HasLogo bool `json:"has_logo"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleCalc(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	calc, err := s.app.Calculate(r.Context(), parseMeasurementForm(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, calc)
}

func (s *server) handleEstimatesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, estimatesResponse{
		Query:     query,
		Estimates: s.app.History.Search(r.Context(), query),
	})
}

func (s *server) handleEstimateCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	e, err := s.app.SaveQuote(r.Context(), parseQuoteForm(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/estimates/"+strconv.FormatInt(e.ID, 10))
	writeJSON(w, http.StatusCreated, e)
}

func (s *server) handleEstimateUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	req := parseQuoteForm(r)
	req.ID = id
	e, err := s.app.SaveQuote(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *server) handleEstimateDetail(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e, ok := s.app.History.Get(r.Context(), id)
	if !ok {
		s.writeError(w, r, estimate.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *server) handleEstimatesDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ids, err := parseIDs(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	removed, err := s.app.History.DeleteByIDs(r.Context(), ids)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (s *server) handleEstimateText(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.app.Document(r.Context(), []int64{id})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(doc.PlainText()))
}

func (s *server) handleEstimatePDF(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.app.Document(r.Context(), []int64{id})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePDF(w, r, doc)
}

func (s *server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ids, err := parseIDs(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.app.Document(r.Context(), ids)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePDF(w, r, doc)
}

func (s *server) writePDF(w http.ResponseWriter, r *http.Request, doc *document.Document) {
	var buf bytes.Buffer
	if err := doc.WritePDF(&buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachment(doc.Name))
	_, _ = w.Write(buf.Bytes())
}

func (s *server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ids, err := parseIDs(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, name, err := s.app.Workbook(r.Context(), ids)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", attachment(name))
	_, _ = w.Write(data)
}

func (s *server) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.settingsView(r))
}

func (s *server) handleSettingsPricing(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if _, err := s.app.Settings.UpdatePricing(r.Context(), r.FormValue("unit_price"), r.FormValue("coverage")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.settingsView(r))
}

func (s *server) handleSettingsCompany(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxLogoBytes + 1<<20); err != nil && err != http.ErrNotMultipart {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	logo, err := readLogo(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	if err := s.app.Settings.UpdateCompany(ctx, estimate.CompanyProfile{
		Name:    r.FormValue("name"),
		Address: r.FormValue("address"),
		Phone:   r.FormValue("phone"),
		Email:   r.FormValue("email"),
		Logo:    logo,
	}, isChecked(r.FormValue("remove_logo"))); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.settingsView(r))
}

func (s *server) settingsView(r *http.Request) settingsResponse {
	company := s.app.Settings.Company(r.Context())
	return settingsResponse{
		Pricing: s.app.Settings.Pricing(r.Context()),
		Company: companyResponse{CompanyProfile: company, HasLogo: company.HasLogo()},
	}
}

func attachment(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}
