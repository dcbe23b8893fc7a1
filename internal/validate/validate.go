// Package validate turns untrusted workout JSON into a sanitized
// models.WorkoutData. It never returns an error: problems are reported as
// errors or warnings on the Result, which always carries a corrected copy.
package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/models"
	"github.com/google/uuid"
)

// DefaultWorkoutName replaces a blank workout name.
const DefaultWorkoutName = "אימון"

// maxDuration is the point past which a duration is flagged, not rejected.
const maxDuration = 24 * time.Hour

// Result is the outcome of a validation pass.
type Result struct {
	IsValid   bool                `json:"isValid"`
	Errors    []string            `json:"errors"`
	Warnings  []string            `json:"warnings"`
	Corrected *models.WorkoutData `json:"correctedData"`
}

type checker struct {
	now time.Time
	res Result
}

func (c *checker) errorf(format string, args ...any) {
	c.res.Errors = append(c.res.Errors, fmt.Sprintf(format, args...))
}

func (c *checker) warnf(format string, args ...any) {
	c.res.Warnings = append(c.res.Warnings, fmt.Sprintf(format, args...))
}

// Workout validates raw workout JSON. now substitutes for unusable timestamps.
func Workout(raw models.RawWorkout, now time.Time) Result {
	c := &checker{now: now.UTC()}
	c.res.Errors = []string{}
	c.res.Warnings = []string{}
	w := &models.WorkoutData{Exercises: []models.WorkoutExercise{}}
	c.res.Corrected = w

	if raw == nil {
		c.errorf("workout is missing")
		w.ID = uuid.NewString()
		w.Name = DefaultWorkoutName
		c.res.IsValid = false
		return c.res
	}

	w.ID = c.id(raw["id"], "workout")
	w.Name = c.name(raw["name"])
	if notes, ok := raw["notes"].(string); ok {
		w.Notes = notes
	}

	c.exercises(raw, w)
	c.times(raw, w)
	c.duration(raw, w)
	c.setCounts(raw, w)

	c.res.IsValid = len(c.res.Errors) == 0
	return c.res
}

// Typed validates an already-typed workout by round-tripping it through the
// untrusted path. The input is never modified.
func Typed(w *models.WorkoutData, now time.Time) Result {
	if w == nil {
		return Workout(nil, now)
	}
	data, err := json.Marshal(w)
	if err != nil {
		res := Workout(nil, now)
		res.Errors = []string{"workout could not be serialized: " + err.Error()}
		return res
	}
	var raw models.RawWorkout
	if err := json.Unmarshal(data, &raw); err != nil {
		res := Workout(nil, now)
		res.Errors = []string{"workout could not be decoded: " + err.Error()}
		return res
	}
	return Workout(raw, now)
}

// QuickForAutoSave is the cheap check used on every auto-save tick: the
// workout exists, has a name and has an exercise list.
func QuickForAutoSave(w *models.WorkoutData) bool {
	return w != nil && strings.TrimSpace(w.Name) != "" && w.Exercises != nil
}

func (c *checker) id(v any, what string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	if n, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", n)
	}
	c.warnf("%s id is missing, generated a new one", what)
	return uuid.NewString()
}

func (c *checker) name(v any) string {
	s, _ := v.(string)
	s = strings.TrimSpace(s)
	if s == "" {
		c.warnf("workout name is empty, using default %q", DefaultWorkoutName)
		return DefaultWorkoutName
	}
	return s
}

func (c *checker) exercises(raw models.RawWorkout, w *models.WorkoutData) {
	list, ok := raw["exercises"].([]any)
	if !ok {
		c.errorf("exercises must be an array, got %s", typeName(raw["exercises"]))
		return
	}
	if len(list) == 0 {
		c.warnf("workout has no exercises")
		return
	}
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			c.warnf("exercise %d is not an object, dropped", i+1)
			continue
		}
		w.Exercises = append(w.Exercises, c.exercise(i, obj))
	}
}

func (c *checker) exercise(i int, obj map[string]any) models.WorkoutExercise {
	ex := models.WorkoutExercise{
		ID:             c.id(obj["id"], fmt.Sprintf("exercise %d", i+1)),
		Category:       stringOf(obj["category"]),
		Equipment:      stringOf(obj["equipment"]),
		Notes:          stringOf(obj["notes"]),
		PrimaryMuscles: stringsOf(obj["primaryMuscles"]),
		Sets:           []models.Set{},
	}
	ex.Name = strings.TrimSpace(stringOf(obj["name"]))
	if ex.Name == "" {
		ex.Name = fmt.Sprintf("תרגיל %d", i+1)
		c.warnf("exercise %d has no name, using %q", i+1, ex.Name)
	}
	if rest, ok := numberOf(obj["restTime"]); ok {
		ex.RestTime = clampInt(rest, 0, math.MaxInt32)
	}

	sets, ok := obj["sets"].([]any)
	if !ok {
		if obj["sets"] != nil {
			c.warnf("exercise %q sets must be an array, cleared", ex.Name)
		}
		return ex
	}
	for j, item := range sets {
		so, ok := item.(map[string]any)
		if !ok {
			c.warnf("exercise %q set %d is not an object, dropped", ex.Name, j+1)
			continue
		}
		ex.Sets = append(ex.Sets, c.set(ex.Name, j, so))
	}
	return ex
}

func (c *checker) set(exName string, j int, obj map[string]any) models.Set {
	s := models.Set{
		ID:   stringOf(obj["id"]),
		Type: stringOf(obj["type"]),
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.Completed, _ = obj["completed"].(bool)
	s.IsPR, _ = obj["isPR"].(bool)

	s.TargetReps = c.nonNegInt(obj["targetReps"], exName, j, "targetReps")
	s.ActualReps = c.nonNegInt(obj["actualReps"], exName, j, "actualReps")
	s.TargetWeight = c.nonNegFloat(obj["targetWeight"], exName, j, "targetWeight")
	s.ActualWeight = c.nonNegFloat(obj["actualWeight"], exName, j, "actualWeight")

	if rpe, ok := numberOf(obj["rpe"]); ok {
		clamped := math.Min(math.Max(rpe, 1), 10)
		if clamped != rpe {
			c.warnf("exercise %q set %d rpe %v clamped to %v", exName, j+1, rpe, clamped)
		}
		s.RPE = &clamped
	}
	return s
}

func (c *checker) nonNegInt(v any, exName string, j int, field string) int {
	n, ok := numberOf(v)
	if !ok {
		return 0
	}
	if n < 0 {
		c.warnf("exercise %q set %d %s is negative, set to 0", exName, j+1, field)
		return 0
	}
	return clampInt(n, 0, math.MaxInt32)
}

func (c *checker) nonNegFloat(v any, exName string, j int, field string) float64 {
	n, ok := numberOf(v)
	if !ok {
		return 0
	}
	if n < 0 {
		c.warnf("exercise %q set %d %s is negative, set to 0", exName, j+1, field)
		return 0
	}
	return n
}

func (c *checker) times(raw models.RawWorkout, w *models.WorkoutData) {
	start := c.timestamp(raw, "startTime")
	end := c.timestamp(raw, "endTime")
	if start != nil && end != nil && end.Before(*start) {
		c.warnf("endTime is before startTime, using current time as end")
		fixed := c.now
		if fixed.Before(*start) {
			fixed = *start
		}
		end = &fixed
	}
	w.StartTime = start
	w.EndTime = end
}

func (c *checker) timestamp(raw models.RawWorkout, key string) *time.Time {
	v, present := raw[key]
	if !present || v == nil {
		return nil
	}
	t, err := ParseTime(v)
	if err != nil {
		c.warnf("%s is invalid (%v), using current time", key, err)
		now := c.now
		return &now
	}
	t = t.UTC()
	return &t
}

func (c *checker) duration(raw models.RawWorkout, w *models.WorkoutData) {
	v, present := raw["duration"]
	d, ok := numberOf(v)
	switch {
	case !present || v == nil:
		if w.StartTime != nil && w.EndTime != nil {
			d = w.EndTime.Sub(*w.StartTime).Seconds()
		}
	case !ok:
		c.warnf("duration is not a number, set to 0")
		d = 0
	}
	if d < 0 {
		c.warnf("duration is negative, set to 0")
		d = 0
	}
	if d > maxDuration.Seconds() {
		c.warnf("duration of %.1f hours is unusually long", d/3600)
	}
	w.Duration = clampInt(d, 0, math.MaxInt32)
}

func (c *checker) setCounts(raw models.RawWorkout, w *models.WorkoutData) {
	total, completed := 0, 0
	for _, ex := range w.Exercises {
		total += len(ex.Sets)
		for _, s := range ex.Sets {
			if s.Completed {
				completed++
			}
		}
	}

	w.PlannedSets = c.count(raw, "plannedSets", total)
	w.TotalSets = c.count(raw, "totalSets", total)
	w.CompletedSets = c.count(raw, "completedSets", completed)

	// Recorded sets are authoritative over the summary counters.
	if total > 0 {
		if w.TotalSets != total || w.CompletedSets != completed {
			c.warnf("set counters %d/%d recomputed from sets as %d/%d",
				w.CompletedSets, w.TotalSets, completed, total)
		}
		w.TotalSets = total
		w.CompletedSets = completed
	}
	if w.CompletedSets > w.TotalSets {
		c.warnf("completedSets (%d) exceeds totalSets (%d), clamped", w.CompletedSets, w.TotalSets)
		w.CompletedSets = w.TotalSets
	}
}

func (c *checker) count(raw models.RawWorkout, key string, fallback int) int {
	n, ok := numberOf(raw[key])
	if !ok {
		return fallback
	}
	if n < 0 {
		c.warnf("%s is negative, set to 0", key)
		return 0
	}
	return clampInt(n, 0, math.MaxInt32)
}

func numberOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

func stringsOf(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func clampInt(f float64, lo, hi int) int {
	if f < float64(lo) {
		return lo
	}
	if f > float64(hi) {
		return hi
	}
	return int(math.Round(f))
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nothing"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
