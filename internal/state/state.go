// Package state keeps the application snapshot (users, estimates and settings)
// and writes it to a key-value backend as one document.
package state

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Simplici0/pintorpro/internal/estimate"
	"github.com/Simplici0/pintorpro/internal/pricing"
)

// SnapshotKey is the key the snapshot is stored under in every backend.
const SnapshotKey = "pintorProDB"

// DefaultCompanyName is used until the contractor sets their own.
const DefaultCompanyName = "Mi Empresa de Pintura"

var (
	// ErrNotFound is returned by a Backend when no snapshot has been saved yet.
	ErrNotFound = errors.New("state snapshot not found")
	// ErrCorrupt is returned when a stored snapshot cannot be decoded.
	ErrCorrupt = errors.New("state snapshot is corrupt")
	// ErrUnchanged can be returned from an Update callback to skip the write.
	ErrUnchanged = errors.New("state unchanged")
)

// Backend stores the encoded snapshot.
type Backend interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, data []byte) error
}

// Settings groups the contractor-level configuration.
type Settings struct {
	Pricing pricing.Config
	Company estimate.CompanyProfile
	Theme   json.RawMessage
}

// RawState is the whole persisted document.
type RawState struct {
	Users     json.RawMessage
	Estimates []estimate.Estimate
	Settings  Settings
}

// Default returns the state of a fresh installation.
func Default() RawState {
	return RawState{
		Estimates: []estimate.Estimate{},
		Settings: Settings{
			Pricing: pricing.DefaultConfig(),
			Company: estimate.CompanyProfile{Name: DefaultCompanyName},
		},
	}
}

// Clone returns a deep copy of s.
func (s RawState) Clone() RawState {
	out := RawState{
		Users:     cloneBytes(s.Users),
		Estimates: make([]estimate.Estimate, len(s.Estimates)),
		Settings: Settings{
			Pricing: s.Settings.Pricing,
			Company: s.Settings.Company,
			Theme:   cloneBytes(s.Settings.Theme),
		},
	}
	out.Settings.Company.Logo = cloneBytes(s.Settings.Company.Logo)
	for i, e := range s.Estimates {
		out.Estimates[i] = e.Clone()
	}
	return out
}

func cloneBytes[T ~[]byte](b T) T {
	if b == nil {
		return nil
	}
	out := make(T, len(b))
	copy(out, b)
	return out
}
