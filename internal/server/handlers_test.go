package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/autosave"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/catalog"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/models"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/planner"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	srv   *Server
	saver *autosave.Service
	store *storage.MemoryStore
}

func newFixture(t *testing.T, apiKey string) *fixture {
	t.Helper()
	log := testLogger()
	cat := catalog.MustDefault()
	store := storage.NewMemoryStore()
	saver := autosave.New(store, autosave.Config{Interval: time.Hour}, log)
	t.Cleanup(saver.Stop)
	return &fixture{
		srv:   New(context.Background(), cat, planner.New(cat, log), saver, apiKey, nil, log),
		saver: saver,
		store: store,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			if err != nil {
				t.Fatal(err)
			}
			r = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode error: %v (body %q)", err, rec.Body.String())
	}
}

// TestHandleNormalize verifies alias resolution, the bodyweight invariant and
// the report of ignored names.
func TestHandleNormalize(t *testing.T) {
	f := newFixture(t, "")
	rec := f.do(t, http.MethodPost, "/api/v1/equipment/normalize",
		map[string]any{"equipment": []string{"Dumbbells", "laser sword"}}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got struct {
		Tags    []string `json:"tags"`
		Ignored []string `json:"ignored"`
	}
	decodeInto(t, rec, &got)
	want := map[string]bool{"bodyweight": true, "dumbbell": true}
	if len(got.Tags) != len(want) {
		t.Fatalf("tags = %v, want bodyweight and dumbbell", got.Tags)
	}
	for _, tag := range got.Tags {
		if !want[tag] {
			t.Errorf("unexpected tag %q", tag)
		}
	}
	if len(got.Ignored) != 1 || got.Ignored[0] != "laser sword" {
		t.Errorf("ignored = %v, want [laser sword]", got.Ignored)
	}
}

// TestHandleAvailability verifies that the response distinguishes the strict
// check from the substitution-aware one.
func TestHandleAvailability(t *testing.T) {
	f := newFixture(t, "")
	rec := f.do(t, http.MethodPost, "/api/v1/equipment/availability",
		map[string]any{"required": []string{"machine"}, "owned": []string{"dumbbell"}}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got struct {
		CanPerform       bool              `json:"canPerform"`
		IsFullySupported bool              `json:"isFullySupported"`
		Substitutions    map[string]string `json:"substitutions"`
		CanPerformDirect bool              `json:"canPerformDirect"`
		Score            float64           `json:"score"`
	}
	decodeInto(t, rec, &got)
	if !got.CanPerform || got.IsFullySupported || got.CanPerformDirect {
		t.Errorf("verdict = %+v, want performable by substitution only", got)
	}
	if got.Substitutions["machine"] != "dumbbell" {
		t.Errorf("substitutions = %v, want machine→dumbbell", got.Substitutions)
	}
	if got.Score != 0.8 {
		t.Errorf("score = %v, want 0.8", got.Score)
	}
}

// TestHandleAvailabilityErrors verifies unknown exercise ids and unknown
// required tags are rejected.
func TestHandleAvailabilityErrors(t *testing.T) {
	f := newFixture(t, "")
	if rec := f.do(t, http.MethodPost, "/api/v1/equipment/availability",
		map[string]any{"exerciseId": "nope"}, nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown exercise status = %d, want 404", rec.Code)
	}
	if rec := f.do(t, http.MethodPost, "/api/v1/equipment/availability",
		map[string]any{"required": []string{"hoverboard"}}, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown tag status = %d, want 400", rec.Code)
	}
	if rec := f.do(t, http.MethodPost, "/api/v1/equipment/availability",
		"{broken", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad JSON status = %d, want 400", rec.Code)
	}
}

// TestHandleGenerateDay verifies the chest-day selection with dumbbells for
// a beginner with 45 minutes.
func TestHandleGenerateDay(t *testing.T) {
	f := newFixture(t, "")
	rec := f.do(t, http.MethodPost, "/api/v1/plans/day", planner.DayRequest{
		DayLabel:        "חזה",
		Equipment:       []string{"dumbbells"},
		Experience:      "beginner",
		DurationMinutes: 45,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got planner.GenerationResult
	decodeInto(t, rec, &got)
	if len(got.Exercises) != 4 {
		t.Fatalf("got %d exercises, want 4", len(got.Exercises))
	}
	for _, ex := range got.Exercises {
		if ex.Sets != 3 {
			t.Errorf("%s sets = %d, want 3", ex.ExerciseID, ex.Sets)
		}
	}
	if got.AvailabilityScore != 1 {
		t.Errorf("availability score = %v, want 1", got.AvailabilityScore)
	}
}

// TestHandleGeneratePlan verifies a weekly plan comes back with one day per
// training day.
func TestHandleGeneratePlan(t *testing.T) {
	f := newFixture(t, "")
	rec := f.do(t, http.MethodPost, "/api/v1/plans", planner.PlanRequest{
		DaysPerWeek: 3,
		Equipment:   []string{"dumbbell", "bench"},
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var plan models.WorkoutPlan
	decodeInto(t, rec, &plan)
	if len(plan.Days) != 3 || plan.ID == "" {
		t.Errorf("plan = %d days, id %q", len(plan.Days), plan.ID)
	}
}

// TestHandleValidate verifies the non-array exercises case over HTTP: the
// status stays 200 and the body reports the problem.
func TestHandleValidate(t *testing.T) {
	f := newFixture(t, "")
	rec := f.do(t, http.MethodPost, "/api/v1/workouts/validate",
		`{"name":"","exercises":"not-an-array"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got struct {
		IsValid   bool               `json:"isValid"`
		Errors    []string           `json:"errors"`
		Warnings  []string           `json:"warnings"`
		Corrected models.WorkoutData `json:"correctedData"`
	}
	decodeInto(t, rec, &got)
	if got.IsValid || len(got.Errors) == 0 || len(got.Warnings) == 0 {
		t.Errorf("result = %+v", got)
	}
	if got.Corrected.Exercises == nil || len(got.Corrected.Exercises) != 0 {
		t.Errorf("corrected exercises = %v, want []", got.Corrected.Exercises)
	}
}

// TestHandleCatalogFilters verifies the day and equipment filters.
func TestHandleCatalogFilters(t *testing.T) {
	f := newFixture(t, "")

	rec := f.do(t, http.MethodGet, "/api/v1/catalog", nil, nil)
	var all struct {
		Count int `json:"count"`
	}
	decodeInto(t, rec, &all)
	if all.Count != f.srv.catalog.Len() {
		t.Errorf("count = %d, want %d", all.Count, f.srv.catalog.Len())
	}

	rec = f.do(t, http.MethodGet, "/api/v1/catalog?day=chest&equipment=none", nil, nil)
	var filtered struct {
		Count     int `json:"count"`
		Exercises []struct {
			ID           string `json:"id"`
			Availability *struct {
				CanPerform bool `json:"canPerform"`
			} `json:"availability"`
		} `json:"exercises"`
	}
	decodeInto(t, rec, &filtered)
	if filtered.Count == 0 || filtered.Count >= all.Count {
		t.Fatalf("filtered count = %d of %d", filtered.Count, all.Count)
	}
	for _, ex := range filtered.Exercises {
		if ex.Availability == nil || !ex.Availability.CanPerform {
			t.Errorf("%s listed without a performable availability", ex.ID)
		}
	}
}

// TestHandleCatalogMuscleFilter verifies Hebrew and English muscle names
// select the same exercises.
func TestHandleCatalogMuscleFilter(t *testing.T) {
	f := newFixture(t, "")

	count := func(path string) int {
		var got struct {
			Count int `json:"count"`
		}
		decodeInto(t, f.do(t, http.MethodGet, path, nil, nil), &got)
		return got.Count
	}

	en := count("/api/v1/catalog?muscle=chest")
	he := count("/api/v1/catalog?muscle=%D7%97%D7%96%D7%94")
	if en == 0 || en != he {
		t.Errorf("chest = %d, חזה = %d; want equal and non-zero", en, he)
	}
}

// TestSessionLifecycle walks a session from a plan day through auto-save,
// draft recovery, an update and the final finish.
func TestSessionLifecycle(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	day := models.WorkoutDay{
		Name: "Push",
		Exercises: []models.ExerciseTemplate{
			{ExerciseID: "push_ups", Sets: 3, Reps: "8-12", RestTime: 60},
		},
	}
	rec := f.do(t, http.MethodPost, "/api/v1/sessions", map[string]any{"day": day}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d, body %s", rec.Code, rec.Body.String())
	}
	var started sessionResponse
	decodeInto(t, rec, &started)
	w := started.Workout
	if w == nil || w.Name != "Push" || len(w.Exercises) != 1 || len(w.Exercises[0].Sets) != 3 {
		t.Fatalf("started workout = %+v", w)
	}
	if w.Exercises[0].Name != "Push-Ups" || w.Exercises[0].Sets[0].TargetReps != 8 {
		t.Errorf("exercise = %+v", w.Exercises[0])
	}
	if id, ok := f.saver.Active(); !ok || id != w.ID {
		t.Fatalf("auto-save active = %q, %v; want %q", id, ok, w.ID)
	}

	if err := f.saver.SaveNow(ctx); err != nil {
		t.Fatalf("SaveNow: %v", err)
	}
	rec = f.do(t, http.MethodGet, "/api/v1/drafts/recover", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("recover status = %d", rec.Code)
	}
	var recovered autosave.Recovered
	decodeInto(t, rec, &recovered)
	if recovered.WorkoutID != w.ID || recovered.Version != 1 {
		t.Errorf("recovered = %s v%d", recovered.WorkoutID, recovered.Version)
	}

	update := *w
	update.Exercises[0].Sets[0].Completed = true
	update.Exercises[0].Sets[0].ActualReps = 10
	rec = f.do(t, http.MethodPut, "/api/v1/sessions/"+w.ID, update, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodPut, "/api/v1/sessions/"+w.ID, `{"name":"x","exercises":5}`, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid update status = %d, want 422", rec.Code)
	}

	rec = f.do(t, http.MethodDelete, "/api/v1/sessions/"+w.ID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("finish status = %d", rec.Code)
	}
	var finished sessionResponse
	decodeInto(t, rec, &finished)
	if finished.Workout.CompletedSets != 1 || finished.Workout.TotalSets != 3 {
		t.Errorf("final counts = %d/%d, want 1/3",
			finished.Workout.CompletedSets, finished.Workout.TotalSets)
	}
	if finished.Workout.EndTime == nil {
		t.Error("final workout has no end time")
	}
	if _, ok := f.saver.Active(); ok {
		t.Error("auto-save still active after finish")
	}
	if keys, _ := f.store.Keys(ctx, autosave.DraftKeyPrefix); len(keys) != 0 {
		t.Errorf("drafts left after finish: %v", keys)
	}

	if rec := f.do(t, http.MethodGet, "/api/v1/sessions/"+w.ID, nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("get finished session status = %d, want 404", rec.Code)
	}
}

// TestStartSessionInvalidExercises verifies a session is not started from
// an unusable body.
func TestStartSessionInvalidExercises(t *testing.T) {
	f := newFixture(t, "")
	rec := f.do(t, http.MethodPost, "/api/v1/sessions", `{"name":"A","exercises":"nope"}`, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if _, ok := f.saver.Active(); ok {
		t.Error("auto-save started for an invalid session")
	}
}

// TestRecoverNothing verifies the empty response when no draft exists.
func TestRecoverNothing(t *testing.T) {
	f := newFixture(t, "")
	if rec := f.do(t, http.MethodGet, "/api/v1/drafts/recover", nil, nil); rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

// unreadableStore fails every key listing.
type unreadableStore struct {
	*storage.MemoryStore
}

func (unreadableStore) Keys(context.Context, string) ([]string, error) {
	return nil, errors.New("disk gone")
}

// TestRecoverStorageFailure verifies that a broken store is reported as 503,
// not as an empty recovery.
func TestRecoverStorageFailure(t *testing.T) {
	log := testLogger()
	cat := catalog.MustDefault()
	saver := autosave.New(unreadableStore{storage.NewMemoryStore()}, autosave.Config{Interval: time.Hour}, log)
	t.Cleanup(saver.Stop)
	f := &fixture{srv: New(context.Background(), cat, planner.New(cat, log), saver, "", nil, log), saver: saver}

	rec := f.do(t, http.MethodGet, "/api/v1/drafts/recover", nil, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

// TestDiscardDraft verifies explicit draft deletion.
func TestDiscardDraft(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	f.store.Set(ctx, autosave.DraftKey("w9"),
		`{"workout":{"id":"w9","name":"A","exercises":[]},"lastSaved":"`+time.Now().UTC().Format(time.RFC3339)+`","version":1}`)

	if rec := f.do(t, http.MethodDelete, "/api/v1/drafts/w9", nil, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/v1/drafts/recover", nil, nil); rec.Code != http.StatusNoContent {
		t.Errorf("recover after discard status = %d, want 204", rec.Code)
	}
}

// TestSessionRoutesRequireAPIKey verifies that session routes are protected
// when a key is configured while planning routes stay open.
func TestSessionRoutesRequireAPIKey(t *testing.T) {
	f := newFixture(t, "secret")

	if rec := f.do(t, http.MethodGet, "/api/v1/drafts/recover", nil, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key status = %d, want 401", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/v1/drafts/recover", nil,
		map[string]string{"X-API-Key": "wrong"}); rec.Code != http.StatusForbidden {
		t.Errorf("wrong key status = %d, want 403", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/v1/drafts/recover", nil,
		map[string]string{"X-API-Key": "secret"}); rec.Code != http.StatusNoContent {
		t.Errorf("valid key status = %d, want 204", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/v1/catalog", nil, nil); rec.Code != http.StatusOK {
		t.Errorf("catalog status = %d, want 200 without key", rec.Code)
	}
}

// TestLowerBound verifies rep range parsing for generated sets.
func TestLowerBound(t *testing.T) {
	tests := map[string]int{"8-12": 8, "15": 15, " 4 - 6": 4, "": 0, "many": 0}
	for in, want := range tests {
		if got := lowerBound(in); got != want {
			t.Errorf("lowerBound(%q) = %d, want %d", in, got, want)
		}
	}
}
