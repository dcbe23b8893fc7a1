package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/models"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/validate"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// liveSession owns the in-progress workout. Auto-save only ever sees copies.
type liveSession struct {
	mu      sync.Mutex
	workout *models.WorkoutData
}

func (l *liveSession) snapshot() *models.WorkoutData {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneWorkout(l.workout)
}

func (l *liveSession) replace(w *models.WorkoutData) {
	l.mu.Lock()
	l.workout = w
	l.mu.Unlock()
}

type startSessionRequest struct {
	Name      string             `json:"name"`
	Exercises json.RawMessage    `json:"exercises"`
	Day       *models.WorkoutDay `json:"day"`
}

type sessionResponse struct {
	Workout  *models.WorkoutData `json:"workout"`
	Warnings []string            `json:"warnings"`
}

// handleStartSession creates the live workout, either from explicit
// exercises or from a generated plan day, and starts auto-saving it.
// Starting a session replaces any previous one.
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	now := s.now().UTC()
	raw := models.RawWorkout{
		"id":        uuid.NewString(),
		"name":      req.Name,
		"startTime": now.Format(time.RFC3339Nano),
	}
	switch {
	case len(req.Exercises) > 0 && string(req.Exercises) != "null":
		var exercises any
		if err := json.Unmarshal(req.Exercises, &exercises); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercises: " + err.Error()})
			return
		}
		raw["exercises"] = exercises
	case req.Day != nil:
		raw["exercises"] = s.exercisesFromDay(*req.Day)
		if req.Name == "" {
			raw["name"] = req.Day.Name
		}
	default:
		raw["exercises"] = []any{}
	}

	res := validate.Workout(raw, now)
	if !res.IsValid {
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}

	live := &liveSession{workout: res.Corrected}
	if err := s.autosave.Start(s.ctx, res.Corrected.ID, live.snapshot); err != nil {
		s.log.Error("starting auto-save", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.mu.Lock()
	s.live = live
	s.mu.Unlock()

	s.log.Info("session started", "workout_id", res.Corrected.ID, "exercises", len(res.Corrected.Exercises))
	writeJSON(w, http.StatusCreated, sessionResponse{Workout: live.snapshot(), Warnings: res.Warnings})
}

// exercisesFromDay expands plan templates into raw exercises with one
// pending set per prescribed set.
func (s *Server) exercisesFromDay(day models.WorkoutDay) []any {
	out := make([]any, 0, len(day.Exercises))
	for _, t := range day.Exercises {
		ex := map[string]any{
			"id":       t.ExerciseID,
			"name":     t.ExerciseID,
			"restTime": float64(t.RestTime),
			"notes":    t.Notes,
		}
		if c, ok := s.catalog.Get(t.ExerciseID); ok {
			ex["name"] = c.Name
			ex["category"] = c.Category
			primary := make([]any, len(c.PrimaryMuscles))
			for i, m := range c.PrimaryMuscles {
				primary[i] = m
			}
			ex["primaryMuscles"] = primary
			ex["equipment"] = strings.Join(c.Equipment, ",")
		}
		reps := float64(lowerBound(t.Reps))
		sets := make([]any, t.Sets)
		for i := range sets {
			sets[i] = map[string]any{"type": "working", "targetReps": reps, "completed": false}
		}
		ex["sets"] = sets
		out = append(out, ex)
	}
	return out
}

// lowerBound parses the low end of a rep range such as "8-12".
func lowerBound(reps string) int {
	lo, _, _ := strings.Cut(reps, "-")
	n, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// current returns the live session if its workout id matches.
func (s *Server) current(id string) *liveSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live == nil || s.live.snapshot().ID != id {
		return nil
	}
	return s.live
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	live := s.current(chi.URLParam(r, "id"))
	if live == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such session"})
		return
	}
	writeJSON(w, http.StatusOK, live.snapshot())
}

// handleUpdateSession replaces the live workout with a validated copy of the
// body. An invalid body leaves the session untouched.
func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	live := s.current(id)
	if live == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such session"})
		return
	}

	var raw models.RawWorkout
	if !decodeBody(w, r, &raw) {
		return
	}
	if raw != nil {
		raw["id"] = id
	}
	res := validate.Workout(raw, s.now())
	if !res.IsValid {
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}
	live.replace(res.Corrected)
	writeJSON(w, http.StatusOK, sessionResponse{Workout: live.snapshot(), Warnings: res.Warnings})
}

// handleFinishSession ends the session: auto-save stops, the draft is
// discarded and the final corrected workout is returned.
func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	live := s.current(id)
	if live == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such session"})
		return
	}

	s.autosave.Stop()
	s.mu.Lock()
	if s.live == live {
		s.live = nil
	}
	s.mu.Unlock()

	final := live.snapshot()
	now := s.now().UTC()
	if final.EndTime == nil {
		final.EndTime = &now
	}
	if final.StartTime != nil {
		final.Duration = int(final.EndTime.Sub(*final.StartTime).Seconds())
	}
	res := validate.Typed(final, now)

	if err := s.autosave.Discard(r.Context(), id); err != nil {
		s.log.Warn("discarding draft of finished session", "workout_id", id, "error", err)
	}
	s.log.Info("session finished", "workout_id", id, "completed_sets", res.Corrected.CompletedSets)
	writeJSON(w, http.StatusOK, sessionResponse{Workout: res.Corrected, Warnings: res.Warnings})
}

// handleRecoverDraft offers the newest unexpired draft, or 204 when there is
// none. Storage failures are 503 so remote clients can tell the two apart.
func (s *Server) handleRecoverDraft(w http.ResponseWriter, r *http.Request) {
	rec, err := s.autosave.Recover(r.Context())
	if err != nil {
		s.log.Error("draft recovery failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "draft storage unavailable"})
		return
	}
	if rec == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDiscardDraft(w http.ResponseWriter, r *http.Request) {
	if err := s.autosave.Discard(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.log.Error("discarding draft", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// cloneWorkout deep-copies w so callers can read it without holding a lock.
func cloneWorkout(w *models.WorkoutData) *models.WorkoutData {
	if w == nil {
		return nil
	}
	c := *w
	if w.StartTime != nil {
		t := *w.StartTime
		c.StartTime = &t
	}
	if w.EndTime != nil {
		t := *w.EndTime
		c.EndTime = &t
	}
	if w.Exercises != nil {
		c.Exercises = make([]models.WorkoutExercise, len(w.Exercises))
		for i, ex := range w.Exercises {
			ex.PrimaryMuscles = append([]string(nil), ex.PrimaryMuscles...)
			if ex.Sets != nil {
				sets := make([]models.Set, len(ex.Sets))
				for j, set := range ex.Sets {
					if set.RPE != nil {
						v := *set.RPE
						set.RPE = &v
					}
					sets[j] = set
				}
				ex.Sets = sets
			}
			c.Exercises[i] = ex
		}
	}
	return &c
}
