// Package seed brings a fresh or legacy state snapshot up to what the app
// expects at startup.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/Simplici0/pintorpro/internal/estimate"
	"github.com/Simplici0/pintorpro/internal/pricing"
	"github.com/Simplici0/pintorpro/internal/state"
)

// Config contains the values required by startup seed.
type Config struct {
	// CompanyName is used when the stored profile has no name.
	CompanyName string
	// Legacy is an optional snapshot exported from the browser version of
	// the app. Its estimates are merged in by id.
	Legacy []byte
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way. All changes are saved
// with a single write; nothing is written when there is nothing to do.
func Run(ctx context.Context, repo *state.Repository, cfg Config) (Stats, error) {
	var legacy []estimate.Estimate
	if len(cfg.Legacy) > 0 {
		st, _, err := state.Decode(cfg.Legacy)
		if err != nil {
			return Stats{}, fmt.Errorf("decode legacy snapshot: %w", err)
		}
		legacy = st.Estimates
	}

	var stats Stats
	err := repo.Update(ctx, func(st *state.RawState) error {
		stats = Stats{}
		ensurePricing(st, &stats)
		ensureCompanyName(st, cfg.CompanyName, &stats)
		importEstimates(st, legacy, &stats)
		if stats == (Stats{}) {
			return state.ErrUnchanged
		}
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("run seed: %w", err)
	}
	return stats, nil
}

func ensurePricing(st *state.RawState, stats *Stats) {
	if st.Settings.Pricing.Valid() {
		return
	}
	st.Settings.Pricing = pricing.DefaultConfig()
	stats.Updates++
}

func ensureCompanyName(st *state.RawState, name string, stats *Stats) {
	if strings.TrimSpace(st.Settings.Company.Name) != "" {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = state.DefaultCompanyName
	}
	st.Settings.Company.Name = name
	stats.Updates++
}

func importEstimates(st *state.RawState, legacy []estimate.Estimate, stats *Stats) {
	if len(legacy) == 0 {
		return
	}
	known := make(map[int64]struct{}, len(st.Estimates))
	for _, e := range st.Estimates {
		known[e.ID] = struct{}{}
	}
	for _, e := range legacy {
		if _, ok := known[e.ID]; ok {
			continue
		}
		known[e.ID] = struct{}{}
		st.Estimates = append(st.Estimates, e.Clone())
		stats.Inserts++
	}
}
