package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Repository holds the current snapshot in memory and writes every change
// through to the backend. Mutations are serialised.
type Repository struct {
	mu      sync.RWMutex
	backend Backend
	logger  *zap.Logger
	current RawState
}

// Open loads the stored snapshot. A missing, unreadable or corrupt snapshot
// is replaced by Default and never causes an error.
func Open(ctx context.Context, backend Backend, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Repository{backend: backend, logger: logger}
	r.current = r.load(ctx)
	return r
}

func (r *Repository) load(ctx context.Context) RawState {
	data, err := r.backend.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		r.logger.Info("no stored state, starting empty")
		return Default()
	}
	if err != nil {
		r.logger.Warn("failed to read stored state, starting empty", zap.Error(err))
		return Default()
	}

	st, report, err := Decode(data)
	if err != nil {
		r.logger.Warn("stored state is corrupt, starting empty", zap.Error(err))
		return Default()
	}
	if report.Malformed > 0 || report.Duplicates > 0 {
		r.logger.Warn("dropped invalid estimates from stored state",
			zap.Int("malformed", report.Malformed),
			zap.Int("duplicates", report.Duplicates),
		)
	}
	r.logger.Info("state loaded", zap.Int("estimates", len(st.Estimates)))
	return st
}

// Snapshot returns a deep copy of the current state.
func (r *Repository) Snapshot() RawState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current.Clone()
}

// View calls fn with the current state. fn must not retain or modify it.
func (r *Repository) View(fn func(st *RawState)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn(&r.current)
}

// Update applies fn to a copy of the state and saves the result with a single
// backend write. The in-memory state only changes when the write succeeds.
// If fn returns ErrUnchanged nothing is written and Update returns nil.
func (r *Repository) Update(ctx context.Context, fn func(st *RawState) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.current.Clone()
	if err := fn(&next); err != nil {
		if errors.Is(err, ErrUnchanged) {
			return nil
		}
		return err
	}

	data, err := Encode(next)
	if err != nil {
		return err
	}
	if err := r.backend.Put(ctx, data); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	r.current = next
	return nil
}
