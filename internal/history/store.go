// Package history is the ordered collection of saved estimates, newest first.
package history

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Simplici0/pintorpro/internal/estimate"
	"github.com/Simplici0/pintorpro/internal/state"
)

// Store manages the estimates held in the state repository. Rows are always
// addressed by estimate id, never by display position.
type Store struct {
	repo   *state.Repository
	logger *zap.Logger
}

// NewStore returns a Store backed by repo.
func NewStore(repo *state.Repository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repo, logger: logger}
}

// List returns a copy of all estimates, most recent first.
func (s *Store) List(ctx context.Context) []estimate.Estimate {
	var out []estimate.Estimate
	s.repo.View(func(st *state.RawState) {
		out = make([]estimate.Estimate, len(st.Estimates))
		for i, e := range st.Estimates {
			out[i] = e.Clone()
		}
	})
	return out
}

// Get returns the estimate with the given id.
func (s *Store) Get(ctx context.Context, id int64) (estimate.Estimate, bool) {
	var (
		found estimate.Estimate
		ok    bool
	)
	s.repo.View(func(st *state.RawState) {
		if i := indexOf(st.Estimates, id); i >= 0 {
			found, ok = st.Estimates[i].Clone(), true
		}
	})
	return found, ok
}

// GetMany returns the estimates whose ids are in ids, in collection order.
// Unknown ids are ignored.
func (s *Store) GetMany(ctx context.Context, ids []int64) []estimate.Estimate {
	want := idSet(ids)
	var out []estimate.Estimate
	s.repo.View(func(st *state.RawState) {
		for _, e := range st.Estimates {
			if _, ok := want[e.ID]; ok {
				out = append(out, e.Clone())
			}
		}
	})
	return out
}

// Search returns estimates whose client name, address or phone contain query,
// ignoring case. An empty query lists everything.
func (s *Store) Search(ctx context.Context, query string) []estimate.Estimate {
	query = strings.ToLower(strings.TrimSpace(query))
	all := s.List(ctx)
	if query == "" {
		return all
	}

	out := make([]estimate.Estimate, 0)
	for _, e := range all {
		if strings.Contains(strings.ToLower(e.Client.Name), query) ||
			strings.Contains(strings.ToLower(e.Client.Address), query) ||
			strings.Contains(strings.ToLower(e.Client.Phone), query) {
			out = append(out, e)
		}
	}
	return out
}

// Upsert replaces the estimate with the same id in place, or inserts it at
// the head of the collection.
func (s *Store) Upsert(ctx context.Context, e estimate.Estimate) error {
	if err := e.Validate(); err != nil {
		return err
	}

	inserted := false
	err := s.repo.Update(ctx, func(st *state.RawState) error {
		next := e.Clone()
		if i := indexOf(st.Estimates, e.ID); i >= 0 {
			st.Estimates[i] = next
			return nil
		}
		st.Estimates = append([]estimate.Estimate{next}, st.Estimates...)
		inserted = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert estimate %d: %w", e.ID, err)
	}

	s.logger.Info("estimate saved",
		zap.Int64("estimate_id", e.ID),
		zap.Bool("inserted", inserted),
		zap.String("total", e.Total.String()),
	)
	return nil
}

// DeleteByIDs removes every estimate whose id is in ids and returns how many
// were removed. Callers confirm the deletion with the user beforehand.
func (s *Store) DeleteByIDs(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, &estimate.ValidationError{Field: "ids", Err: estimate.ErrEmptySelection}
	}
	remove := idSet(ids)

	removed := 0
	err := s.repo.Update(ctx, func(st *state.RawState) error {
		kept := make([]estimate.Estimate, 0, len(st.Estimates))
		for _, e := range st.Estimates {
			if _, ok := remove[e.ID]; ok {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		if removed == 0 {
			return state.ErrUnchanged
		}
		st.Estimates = kept
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete estimates: %w", err)
	}

	if removed > 0 {
		s.logger.Info("estimates deleted", zap.Int("removed", removed), zap.Int("requested", len(remove)))
	}
	return removed, nil
}

func indexOf(list []estimate.Estimate, id int64) int {
	for i, e := range list {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
