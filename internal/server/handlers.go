package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/equipment"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/models"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/muscles"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/planner"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/validate"
)

// maxBodyBytes caps request bodies; workouts are a few KB.
const maxBodyBytes = 1 << 20

type catalogEntry struct {
	models.Exercise
	Availability *equipment.Availability `json:"availability,omitempty"`
}

// handleCatalog lists the catalog. Optional query parameters:
// day filters by day label, equipment (comma-separated) adds availability
// and hides exercises that cannot be performed.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var targets []string
	if day := q.Get("day"); day != "" {
		targets = muscles.ForDay(day)
	}
	if m := q.Get("muscle"); m != "" {
		targets = append(targets, muscles.Canonical(m))
	}
	var owned equipment.TagSet
	if eq := q.Get("equipment"); eq != "" {
		owned = equipment.Normalize(strings.Split(eq, ","))
	}

	out := make([]catalogEntry, 0, s.catalog.Len())
	for _, ex := range s.catalog.Exercises() {
		if targets != nil && !muscles.Matches(ex, targets) {
			continue
		}
		entry := catalogEntry{Exercise: ex}
		if owned != nil {
			a := equipment.ExerciseAvailability(s.catalog.Required(ex.ID), owned)
			if !a.CanPerform {
				continue
			}
			entry.Availability = &a
		}
		out = append(out, entry)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(out),
		"exercises": out,
	})
}

type normalizeRequest struct {
	Equipment []string `json:"equipment"`
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	_, unknown := equipment.ParseTags(req.Equipment)
	if unknown == nil {
		unknown = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tags":    equipment.Normalize(req.Equipment).Strings(),
		"ignored": unknown,
	})
}

type availabilityRequest struct {
	ExerciseID string   `json:"exerciseId"`
	Required   []string `json:"required"`
	Owned      []string `json:"owned"`
}

type availabilityResponse struct {
	equipment.Availability
	CanPerformDirect bool    `json:"canPerformDirect"`
	Score            float64 `json:"score"`
}

// handleAvailability resolves a requirement either given directly or taken
// from a catalog exercise.
func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var required []equipment.Tag
	if req.ExerciseID != "" {
		if _, ok := s.catalog.Get(req.ExerciseID); !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown exercise " + req.ExerciseID})
			return
		}
		required = s.catalog.Required(req.ExerciseID)
	} else {
		var unknown []string
		required, unknown = equipment.ParseTags(req.Required)
		if len(unknown) > 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":   "unknown equipment in required",
				"unknown": unknown,
			})
			return
		}
	}

	owned := equipment.Normalize(req.Owned)
	a := equipment.ExerciseAvailability(required, owned)
	writeJSON(w, http.StatusOK, availabilityResponse{
		Availability:     a,
		CanPerformDirect: equipment.CanPerform(required, owned),
		Score:            a.Score(),
	})
}

func (s *Server) handleGenerateDay(w http.ResponseWriter, r *http.Request) {
	var req planner.DayRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.planner.Generate(req))
}

func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req planner.PlanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.planner.GeneratePlan(req))
}

// handleValidate always answers 200 with the validation result; invalid
// workouts are reported in the body, not by status.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var raw models.RawWorkout
	if !decodeBody(w, r, &raw) {
		return
	}
	writeJSON(w, http.StatusOK, validate.Workout(raw, s.now()))
}

// decodeBody decodes the JSON body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
