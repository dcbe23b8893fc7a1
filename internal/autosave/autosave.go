// Package autosave periodically persists the live workout as a draft and
// offers the newest unexpired draft back after a restart.
package autosave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/models"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/storage"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/validate"
)

// DraftKeyPrefix prefixes every draft key in the blob store.
const DraftKeyPrefix = "workout_draft_"

const (
	DefaultInterval    = 30 * time.Second
	DefaultTTL         = 24 * time.Hour
	DefaultMaxFailures = 3
)

// ErrNoSession is returned by SaveNow when no auto-save session is active.
var ErrNoSession = errors.New("autosave: no active session")

// DraftKey returns the blob store key for a workout's draft.
func DraftKey(workoutID string) string {
	return DraftKeyPrefix + workoutID
}

// Accessor returns a snapshot of the live workout. It is called once per
// tick and must not hand out an object the caller keeps mutating.
type Accessor func() *models.WorkoutData

// RecoveryStrategy decides what happens after a failed draft write.
// consecutive counts failures since the last successful write. Returning
// true stops the auto-save timer.
type RecoveryStrategy func(err error, consecutive int) (stop bool)

// StopAfter stops the timer once max consecutive writes have failed.
func StopAfter(max int) RecoveryStrategy {
	return func(_ error, consecutive int) bool {
		return consecutive >= max
	}
}

// Config controls the timer and the draft expiry.
type Config struct {
	Interval    time.Duration
	TTL         time.Duration
	MaxFailures int

	// Strategy overrides StopAfter(MaxFailures) when set.
	Strategy RecoveryStrategy
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.MaxFailures <= 0 {
		c.MaxFailures = DefaultMaxFailures
	}
	if c.Strategy == nil {
		c.Strategy = StopAfter(c.MaxFailures)
	}
	return c
}

// Service owns at most one auto-save timer at a time.
type Service struct {
	store storage.BlobStore
	log   *slog.Logger
	cfg   Config
	now   func() time.Time

	// startMu makes Start atomic: stop, version lookup and install.
	startMu sync.Mutex

	mu   sync.Mutex // guards sess
	sess *session

	// saveMu serializes draft writes so ticks never overlap with SaveNow.
	saveMu sync.Mutex
}

type session struct {
	workoutID string
	accessor  Accessor
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}

	// guarded by Service.saveMu
	version  int
	failures int
}

// New creates a Service writing drafts to store.
func New(store storage.BlobStore, cfg Config, log *slog.Logger) *Service {
	return &Service{
		store: store,
		log:   log,
		cfg:   cfg.withDefaults(),
		now:   time.Now,
	}
}

// Start begins auto-saving workoutID. Any previous timer is stopped first,
// so only one timer ever runs. The timer also stops when ctx is done.
func (s *Service) Start(ctx context.Context, workoutID string, accessor Accessor) error {
	if strings.TrimSpace(workoutID) == "" {
		return fmt.Errorf("autosave: workout id is required")
	}
	if accessor == nil {
		return fmt.Errorf("autosave: accessor is required")
	}

	s.startMu.Lock()
	defer s.startMu.Unlock()
	s.Stop()

	sctx, cancel := context.WithCancel(ctx)
	sess := &session{
		workoutID: workoutID,
		accessor:  accessor,
		ctx:       sctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		version:   s.storedVersion(ctx, workoutID),
	}

	s.mu.Lock()
	prev := s.sess
	s.sess = sess
	s.mu.Unlock()

	// A displaced session must not keep ticking.
	if prev != nil {
		prev.cancel()
		<-prev.done
	}

	go s.run(sess)
	s.log.Info("auto-save started", "workout_id", workoutID, "interval", s.cfg.Interval)
	return nil
}

// storedVersion continues numbering from an existing draft for the same id.
func (s *Service) storedVersion(ctx context.Context, workoutID string) int {
	data, err := s.store.Get(ctx, DraftKey(workoutID))
	if err != nil {
		return 0
	}
	d, err := validate.Draft([]byte(data), s.now())
	if err != nil {
		return 0
	}
	return d.Version
}

func (s *Service) run(sess *session) {
	defer close(sess.done)
	t := time.NewTicker(s.cfg.Interval)
	defer t.Stop()

	for {
		select {
		case <-sess.ctx.Done():
			return
		case <-t.C:
			if err := s.save(sess); err != nil {
				s.log.Warn("auto-save tick failed", "workout_id", sess.workoutID, "error", err)
			}
		}
	}
}

// Stop cancels the active timer and waits for an in-flight tick to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	sess := s.sess
	s.sess = nil
	s.mu.Unlock()

	if sess == nil {
		return
	}
	sess.cancel()
	<-sess.done
	s.log.Info("auto-save stopped", "workout_id", sess.workoutID)
}

// Active reports the workout id being auto-saved, if any.
func (s *Service) Active() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil || s.sess.ctx.Err() != nil {
		return "", false
	}
	return s.sess.workoutID, true
}

// SaveNow writes a draft for the active session immediately.
func (s *Service) SaveNow(ctx context.Context) error {
	s.mu.Lock()
	sess := s.sess
	s.mu.Unlock()
	if sess == nil {
		return ErrNoSession
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.save(sess)
}

// save runs one tick: snapshot, quick check, full validation on a copy and
// a versioned draft write. A skipped snapshot is not an error.
func (s *Service) save(sess *session) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if sess.ctx.Err() != nil {
		return nil
	}

	snapshot := sess.accessor()
	if !validate.QuickForAutoSave(snapshot) {
		s.log.Debug("auto-save skipped, snapshot not ready", "workout_id", sess.workoutID)
		return nil
	}

	now := s.now().UTC()
	res := validate.Typed(snapshot, now)
	draft := models.WorkoutDraft{
		Workout:   *res.Corrected,
		LastSaved: now.Format(time.RFC3339Nano),
		Version:   sess.version + 1,
	}
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}

	if err := s.store.Set(sess.ctx, DraftKey(sess.workoutID), string(data)); err != nil {
		sess.failures++
		s.log.Error("writing draft failed",
			"workout_id", sess.workoutID, "consecutive_failures", sess.failures, "error", err)
		if s.cfg.Strategy(err, sess.failures) {
			s.escalate(sess)
		}
		return fmt.Errorf("writing draft: %w", err)
	}

	sess.version = draft.Version
	sess.failures = 0
	s.log.Debug("draft saved",
		"workout_id", sess.workoutID, "version", draft.Version, "warnings", len(res.Warnings))
	return nil
}

// escalate stops the timer from inside a tick. It must not wait on
// sess.done since it may be running on the timer goroutine.
func (s *Service) escalate(sess *session) {
	sess.cancel()
	s.mu.Lock()
	if s.sess == sess {
		s.sess = nil
	}
	s.mu.Unlock()
	s.log.Error("auto-save stopped after repeated write failures",
		"workout_id", sess.workoutID, "failures", sess.failures)
}
