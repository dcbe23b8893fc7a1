package validate

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/models"
)

var fixedNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func decode(t *testing.T, s string) models.RawWorkout {
	t.Helper()
	var raw models.RawWorkout
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	return raw
}

func containsAny(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// TestWorkoutExercisesNotArray verifies that a non-array exercises field is a
// hard error while the blank name is only a warning, and that the corrected
// copy still carries an empty, non-nil exercise list.
func TestWorkoutExercisesNotArray(t *testing.T) {
	res := Workout(decode(t, `{"name":"","exercises":"not-an-array"}`), fixedNow)

	if res.IsValid {
		t.Error("IsValid = true, want false")
	}
	if !containsAny(res.Errors, "exercises") {
		t.Errorf("errors %v do not mention exercises", res.Errors)
	}
	if !containsAny(res.Warnings, "name") {
		t.Errorf("warnings %v do not mention the default name", res.Warnings)
	}
	if res.Corrected == nil {
		t.Fatal("Corrected is nil")
	}
	if res.Corrected.Exercises == nil || len(res.Corrected.Exercises) != 0 {
		t.Errorf("Corrected.Exercises = %#v, want empty non-nil slice", res.Corrected.Exercises)
	}
	if res.Corrected.Name != DefaultWorkoutName {
		t.Errorf("Corrected.Name = %q, want %q", res.Corrected.Name, DefaultWorkoutName)
	}
}

// TestWorkoutNil verifies that a missing workout yields an error and a usable
// default copy.
func TestWorkoutNil(t *testing.T) {
	res := Workout(nil, fixedNow)
	if res.IsValid || len(res.Errors) == 0 {
		t.Fatalf("res = %+v, want invalid with errors", res)
	}
	if res.Corrected == nil || res.Corrected.ID == "" || res.Corrected.Name == "" {
		t.Errorf("Corrected = %+v, want id and name filled", res.Corrected)
	}
}

// TestWorkoutEmptyExercisesIsWarning verifies that an empty list does not
// invalidate the workout.
func TestWorkoutEmptyExercisesIsWarning(t *testing.T) {
	res := Workout(decode(t, `{"id":"w1","name":"Push","exercises":[]}`), fixedNow)
	if !res.IsValid {
		t.Fatalf("IsValid = false, errors = %v", res.Errors)
	}
	if !containsAny(res.Warnings, "no exercises") {
		t.Errorf("warnings = %v, want empty-list notice", res.Warnings)
	}
}

// TestWorkoutSanitizesSets verifies the per-set clamps and id generation.
func TestWorkoutSanitizesSets(t *testing.T) {
	res := Workout(decode(t, `{
		"id": "w1",
		"name": "Legs",
		"exercises": [
			{"name": "Squat", "sets": [
				{"id": "s1", "actualReps": -3, "actualWeight": -20, "rpe": 14, "completed": true},
				{"targetReps": 8, "rpe": 0.2},
				"junk"
			]},
			42
		]
	}`), fixedNow)

	if !res.IsValid {
		t.Fatalf("IsValid = false, errors = %v", res.Errors)
	}
	w := res.Corrected
	if len(w.Exercises) != 1 {
		t.Fatalf("got %d exercises, want 1 (non-object dropped)", len(w.Exercises))
	}
	ex := w.Exercises[0]
	if ex.ID == "" {
		t.Error("exercise id was not generated")
	}
	if len(ex.Sets) != 2 {
		t.Fatalf("got %d sets, want 2", len(ex.Sets))
	}
	s := ex.Sets[0]
	if s.ActualReps != 0 || s.ActualWeight != 0 {
		t.Errorf("negative values not zeroed: reps=%d weight=%v", s.ActualReps, s.ActualWeight)
	}
	if s.RPE == nil || *s.RPE != 10 {
		t.Errorf("rpe = %v, want 10", s.RPE)
	}
	if ex.Sets[1].ID == "" {
		t.Error("set id was not generated")
	}
	if r := ex.Sets[1].RPE; r == nil || *r != 1 {
		t.Errorf("rpe = %v, want 1", r)
	}
	if w.TotalSets != 2 || w.CompletedSets != 1 {
		t.Errorf("total/completed = %d/%d, want 2/1", w.TotalSets, w.CompletedSets)
	}
}

// TestWorkoutSetCounts verifies clamping of the summary counters.
func TestWorkoutSetCounts(t *testing.T) {
	res := Workout(decode(t, `{
		"name": "A", "exercises": [],
		"plannedSets": -4, "totalSets": 6, "completedSets": 9
	}`), fixedNow)

	w := res.Corrected
	if w.PlannedSets != 0 {
		t.Errorf("PlannedSets = %d, want 0", w.PlannedSets)
	}
	if w.CompletedSets != 6 {
		t.Errorf("CompletedSets = %d, want clamped to 6", w.CompletedSets)
	}
	if !containsAny(res.Warnings, "exceeds") {
		t.Errorf("warnings = %v, want clamp notice", res.Warnings)
	}
	if !res.IsValid {
		t.Errorf("IsValid = false, errors = %v", res.Errors)
	}
}

// TestWorkoutTimes covers timestamp parsing, substitution and duration
// derivation.
func TestWorkoutTimes(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantStart    time.Time
		wantEnd      time.Time
		wantDuration int
		wantWarning  string
	}{
		{
			name:         "iso times derive duration",
			body:         `{"name":"A","exercises":[],"startTime":"2026-03-14T17:00:00Z","endTime":"2026-03-14T18:00:00Z"}`,
			wantStart:    time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC),
			wantEnd:      time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC),
			wantDuration: 3600,
		},
		{
			name:         "epoch millis",
			body:         `{"name":"A","exercises":[],"startTime":1773507600000,"duration":60}`,
			wantStart:    time.UnixMilli(1773507600000).UTC(),
			wantDuration: 60,
		},
		{
			name:         "invalid start uses now",
			body:         `{"name":"A","exercises":[],"startTime":"yesterday-ish"}`,
			wantStart:    fixedNow,
			wantWarning:  "startTime is invalid",
			wantDuration: 0,
		},
		{
			name:         "end before start",
			body:         `{"name":"A","exercises":[],"startTime":"2026-03-14T17:00:00Z","endTime":"2026-03-14T16:00:00Z"}`,
			wantStart:    time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC),
			wantEnd:      fixedNow,
			wantDuration: 5400,
			wantWarning:  "endTime is before startTime",
		},
		{
			name:        "negative duration",
			body:        `{"name":"A","exercises":[],"duration":-5}`,
			wantWarning: "duration is negative",
		},
		{
			name:         "long duration kept",
			body:         `{"name":"A","exercises":[],"duration":90000}`,
			wantDuration: 90000,
			wantWarning:  "unusually long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Workout(decode(t, tt.body), fixedNow)
			if !res.IsValid {
				t.Fatalf("IsValid = false, errors = %v", res.Errors)
			}
			w := res.Corrected
			if !tt.wantStart.IsZero() && (w.StartTime == nil || !w.StartTime.Equal(tt.wantStart)) {
				t.Errorf("StartTime = %v, want %v", w.StartTime, tt.wantStart)
			}
			if !tt.wantEnd.IsZero() && (w.EndTime == nil || !w.EndTime.Equal(tt.wantEnd)) {
				t.Errorf("EndTime = %v, want %v", w.EndTime, tt.wantEnd)
			}
			if w.Duration != tt.wantDuration {
				t.Errorf("Duration = %d, want %d", w.Duration, tt.wantDuration)
			}
			if tt.wantWarning != "" && !containsAny(res.Warnings, tt.wantWarning) {
				t.Errorf("warnings = %v, want %q", res.Warnings, tt.wantWarning)
			}
		})
	}
}

// TestTypedDoesNotMutate verifies that validating a typed workout leaves the
// original untouched.
func TestTypedDoesNotMutate(t *testing.T) {
	w := &models.WorkoutData{
		ID:        "w1",
		Name:      "  ",
		Exercises: []models.WorkoutExercise{{ID: "e1", Name: "Row", Sets: []models.Set{{ID: "s1", ActualReps: 5}}}},
	}
	res := Typed(w, fixedNow)
	if w.Name != "  " {
		t.Errorf("input name changed to %q", w.Name)
	}
	if res.Corrected.Name != DefaultWorkoutName {
		t.Errorf("Corrected.Name = %q", res.Corrected.Name)
	}
	if res.Corrected == w {
		t.Error("Corrected aliases the input")
	}
}

// TestQuickForAutoSave verifies the cheap presence checks.
func TestQuickForAutoSave(t *testing.T) {
	tests := []struct {
		name string
		w    *models.WorkoutData
		want bool
	}{
		{"nil", nil, false},
		{"blank name", &models.WorkoutData{Name: " ", Exercises: []models.WorkoutExercise{}}, false},
		{"nil exercises", &models.WorkoutData{Name: "A"}, false},
		{"ok", &models.WorkoutData{Name: "A", Exercises: []models.WorkoutExercise{}}, true},
	}
	for _, tt := range tests {
		if got := QuickForAutoSave(tt.w); got != tt.want {
			t.Errorf("%s: QuickForAutoSave = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// TestDraft verifies envelope parsing, corruption detection and repair.
func TestDraft(t *testing.T) {
	good := `{"workout":{"id":"w1","name":"","exercises":[]},"lastSaved":"2026-03-14T18:00:00Z","version":3}`
	d, err := Draft([]byte(good), fixedNow)
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if d.Version != 3 {
		t.Errorf("Version = %d, want 3", d.Version)
	}
	if !d.SavedAt.Equal(time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)) {
		t.Errorf("SavedAt = %v", d.SavedAt)
	}
	if d.Workout().Name != DefaultWorkoutName {
		t.Errorf("repaired name = %q", d.Workout().Name)
	}

	corrupt := []string{
		`{not json`,
		`{"lastSaved":"2026-03-14T18:00:00Z"}`,
		`{"workout":{"name":"A","exercises":[]}}`,
		`{"workout":{"name":"A","exercises":[]},"lastSaved":"garbage"}`,
	}
	for _, c := range corrupt {
		if _, err := Draft([]byte(c), fixedNow); err == nil {
			t.Errorf("Draft(%s) = nil error, want corrupt", c)
		}
	}
}

// TestParseTime covers the accepted timestamp shapes.
func TestParseTime(t *testing.T) {
	want := time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC)
	ok := []any{
		"2026-03-14T17:00:00Z",
		"2026-03-14T17:00:00.000Z",
		"2026-03-14T17:00:00",
		"2026-03-14 17:00:00",
		"14/03/2026 17:00",
		float64(want.Unix()),
		float64(want.UnixMilli()),
		"1773507600",
		want,
	}
	for _, v := range ok {
		got, err := ParseTime(v)
		if err != nil {
			t.Errorf("ParseTime(%v): %v", v, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseTime(%v) = %v, want %v", v, got, want)
		}
	}

	bad := []any{"", "soon", float64(-1), true, nil}
	for _, v := range bad {
		if _, err := ParseTime(v); err == nil {
			t.Errorf("ParseTime(%v) = nil error", v)
		}
	}
}
