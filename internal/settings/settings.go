// Package settings reads and writes the contractor's pricing parameters and
// company profile.
package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Simplici0/pintorpro/internal/estimate"
	"github.com/Simplici0/pintorpro/internal/pricing"
	"github.com/Simplici0/pintorpro/internal/state"
)

// Service exposes the settings stored in the state repository. Values are
// read at call time and never cached.
type Service struct {
	repo   *state.Repository
	logger *zap.Logger
}

// NewService returns a Service backed by repo.
func NewService(repo *state.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Pricing returns the current pricing configuration.
func (s *Service) Pricing(ctx context.Context) pricing.Config {
	var cfg pricing.Config
	s.repo.View(func(st *state.RawState) {
		cfg = st.Settings.Pricing
	})
	return cfg
}

// Company returns the current company profile.
func (s *Service) Company(ctx context.Context) estimate.CompanyProfile {
	var c estimate.CompanyProfile
	s.repo.View(func(st *state.RawState) {
		c = st.Settings.Company
		if st.Settings.Company.Logo != nil {
			c.Logo = append([]byte(nil), st.Settings.Company.Logo...)
		}
	})
	return c
}

// MergePricing applies raw form values on top of current. A value that is
// missing, non-numeric or not strictly positive keeps the current value.
// The returned slice names the fields that were rejected.
func MergePricing(current pricing.Config, unitPriceRaw, coverageRaw string) (pricing.Config, []string) {
	next := current
	var rejected []string

	if v, ok := positive(unitPriceRaw); ok {
		next.UnitPrice = v
	} else if strings.TrimSpace(unitPriceRaw) != "" {
		rejected = append(rejected, "unit_price")
	}
	if v, ok := positive(coverageRaw); ok {
		next.CoveragePerUnit = v
	} else if strings.TrimSpace(coverageRaw) != "" {
		rejected = append(rejected, "coverage")
	}
	return next, rejected
}

// UpdatePricing stores new pricing values, keeping the previous value of any
// field whose input is not a positive number.
func (s *Service) UpdatePricing(ctx context.Context, unitPriceRaw, coverageRaw string) (pricing.Config, error) {
	var (
		saved    pricing.Config
		rejected []string
	)
	err := s.repo.Update(ctx, func(st *state.RawState) error {
		saved, rejected = MergePricing(st.Settings.Pricing, unitPriceRaw, coverageRaw)
		if saved.Equal(st.Settings.Pricing) {
			return state.ErrUnchanged
		}
		st.Settings.Pricing = saved
		return nil
	})
	if err != nil {
		return pricing.Config{}, fmt.Errorf("update pricing settings: %w", err)
	}

	if len(rejected) > 0 {
		s.logger.Warn("ignored non-positive pricing values", zap.Strings("fields", rejected))
	}
	return saved, nil
}

// UpdateCompany replaces the company profile in a single write. A nil logo
// keeps the stored one unless removeLogo is set; a new logo wins over
// removeLogo.
func (s *Service) UpdateCompany(ctx context.Context, profile estimate.CompanyProfile, removeLogo bool) error {
	err := s.repo.Update(ctx, func(st *state.RawState) error {
		logo := st.Settings.Company.Logo
		switch {
		case profile.Logo != nil:
			logo = append([]byte(nil), profile.Logo...)
		case removeLogo:
			logo = nil
		}
		st.Settings.Company = estimate.CompanyProfile{
			Name:    strings.TrimSpace(profile.Name),
			Address: strings.TrimSpace(profile.Address),
			Phone:   strings.TrimSpace(profile.Phone),
			Email:   strings.TrimSpace(profile.Email),
			Logo:    logo,
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update company profile: %w", err)
	}
	return nil
}

// SetLogo stores decoded logo bytes. An empty slice removes the logo.
func (s *Service) SetLogo(ctx context.Context, logo []byte) error {
	err := s.repo.Update(ctx, func(st *state.RawState) error {
		if len(logo) == 0 {
			st.Settings.Company.Logo = nil
			return nil
		}
		st.Settings.Company.Logo = append([]byte(nil), logo...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set company logo: %w", err)
	}
	return nil
}

func positive(raw string) (decimal.Decimal, bool) {
	v := pricing.ParseAmount(raw)
	if !v.IsPositive() {
		return decimal.Decimal{}, false
	}
	return v, true
}
