package autosave

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/models"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/validate"
)

// Recovered is a draft offered back to the user.
type Recovered struct {
	WorkoutID string              `json:"workoutId"`
	Workout   *models.WorkoutData `json:"workout"`
	SavedAt   time.Time           `json:"lastSaved"`
	Version   int                 `json:"version"`

	// Repaired is set when the stored payload failed validation and the
	// corrected copy is returned instead.
	Repaired bool     `json:"repaired"`
	Warnings []string `json:"warnings,omitempty"`
}

type scanned struct {
	key   string
	draft validate.DraftResult
}

// scan reads every draft, deleting expired and corrupt ones, and returns
// the rest along with the number deleted.
func (s *Service) scan(ctx context.Context) ([]scanned, int, error) {
	keys, err := s.store.Keys(ctx, DraftKeyPrefix)
	if err != nil {
		return nil, 0, fmt.Errorf("listing drafts: %w", err)
	}
	if len(keys) == 0 {
		return nil, 0, nil
	}
	values, err := s.store.MultiGet(ctx, keys)
	if err != nil {
		return nil, 0, fmt.Errorf("reading drafts: %w", err)
	}

	now := s.now().UTC()
	cutoff := now.Add(-s.cfg.TTL)
	removed := 0
	live := make([]scanned, 0, len(values))

	for _, key := range keys {
		data, ok := values[key]
		if !ok {
			continue
		}
		d, err := validate.Draft([]byte(data), now)
		if err != nil {
			s.log.Warn("deleting corrupt draft", "key", key, "error", err)
			removed += s.remove(ctx, key)
			continue
		}
		if d.SavedAt.Before(cutoff) {
			s.log.Info("deleting expired draft", "key", key, "last_saved", d.SavedAt)
			removed += s.remove(ctx, key)
			continue
		}
		live = append(live, scanned{key: key, draft: d})
	}
	return live, removed, nil
}

// remove deletes key, logging failures. It returns 1 on success so callers
// can count deletions.
func (s *Service) remove(ctx context.Context, key string) int {
	if err := s.store.Remove(ctx, key); err != nil {
		s.log.Error("deleting draft failed", "key", key, "error", err)
		return 0
	}
	return 1
}

// Recover returns the most recently saved unexpired draft, or nil when
// there is none. Expired and corrupt drafts are deleted along the way.
// A draft whose workout needed repair is returned with the corrected copy.
func (s *Service) Recover(ctx context.Context) (*Recovered, error) {
	live, _, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	var best *scanned
	for i := range live {
		c := &live[i]
		if best == nil || newer(c.draft, best.draft) {
			best = c
		}
	}
	if best == nil {
		return nil, nil
	}

	res := best.draft.Result
	return &Recovered{
		WorkoutID: strings.TrimPrefix(best.key, DraftKeyPrefix),
		Workout:   best.draft.Workout(),
		SavedAt:   best.draft.SavedAt,
		Version:   best.draft.Version,
		Repaired:  !res.IsValid,
		Warnings:  append(append([]string{}, res.Errors...), res.Warnings...),
	}, nil
}

func newer(a, b validate.DraftResult) bool {
	if !a.SavedAt.Equal(b.SavedAt) {
		return a.SavedAt.After(b.SavedAt)
	}
	return a.Version > b.Version
}

// SweepExpired deletes expired and corrupt drafts and returns how many were
// removed.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	_, removed, err := s.scan(ctx)
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// Discard deletes the draft for workoutID.
func (s *Service) Discard(ctx context.Context, workoutID string) error {
	if err := s.store.Remove(ctx, DraftKey(workoutID)); err != nil {
		return fmt.Errorf("discarding draft %s: %w", workoutID, err)
	}
	return nil
}
