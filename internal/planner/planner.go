// Package planner selects catalog exercises for a workout day and assembles
// multi-day plans from them.
package planner

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/catalog"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/equipment"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/models"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/muscles"
	"github.com/google/uuid"
)

// FallbackExerciseID is emitted alone when nothing in the catalog is usable.
const FallbackExerciseID = "push_ups"

// DayRequest describes one day to generate.
type DayRequest struct {
	DayLabel        string   `json:"dayLabel"`
	Equipment       []string `json:"equipment"`
	Experience      string   `json:"experience"`
	DurationMinutes int      `json:"duration"`
	Goal            string   `json:"goal"`
}

// GenerationResult is what the UI-facing generation call returns. It never
// carries an error: failures become an empty list plus a warning.
type GenerationResult struct {
	Exercises         []models.ExerciseTemplate `json:"exercises"`
	Warning           string                    `json:"warning,omitempty"`
	AvailabilityScore float64                   `json:"availabilityScore"`
}

// Planner selects exercises from a catalog.
type Planner struct {
	catalog *catalog.Catalog
	log     *slog.Logger
	now     func() time.Time
}

// New creates a Planner over the given catalog.
func New(c *catalog.Catalog, log *slog.Logger) *Planner {
	return &Planner{catalog: c, log: log, now: time.Now}
}

// selection is one chosen exercise with the availability that got it picked.
type selection struct {
	exercise     models.Exercise
	availability equipment.Availability
	fallback     bool
}

// SelectExercisesForDay returns between one and eight templates for the day.
// A single bodyweight push-up template is returned when nothing else fits.
func (p *Planner) SelectExercisesForDay(req DayRequest) []models.ExerciseTemplate {
	return p.templates(p.selectForDay(req), req)
}

func (p *Planner) selectForDay(req DayRequest) []selection {
	owned := equipment.Normalize(req.Equipment)
	targets := muscles.ForDay(req.DayLabel)
	n := ExerciseCount(req.DurationMinutes)

	var matched []models.Exercise
	for _, ex := range p.catalog.Exercises() {
		if muscles.Matches(ex, targets) {
			matched = append(matched, ex)
		}
	}

	direct := make([]selection, 0, n)
	for _, ex := range matched {
		if equipment.CanPerform(p.catalog.Required(ex.ID), owned) {
			direct = append(direct, selection{
				exercise:     ex,
				availability: equipment.Availability{CanPerform: true, IsFullySupported: true},
			})
			if len(direct) == n {
				p.log.Debug("selected directly performable exercises",
					"day", req.DayLabel, "count", n)
				return direct
			}
		}
	}

	ranked := make([]selection, 0, len(matched))
	for _, ex := range matched {
		a := equipment.ExerciseAvailability(p.catalog.Required(ex.ID), owned)
		if !a.CanPerform {
			continue
		}
		ranked = append(ranked, selection{exercise: ex, availability: a})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].availability.Score() > ranked[j].availability.Score()
	})

	if len(ranked) == 0 {
		p.log.Warn("no usable exercises for day, using fallback",
			"day", req.DayLabel, "matched", len(matched), "equipment", owned.Strings())
		return []selection{fallbackSelection()}
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	p.log.Debug("selected exercises with substitutions",
		"day", req.DayLabel, "count", len(ranked), "direct", len(direct))
	return ranked
}

func fallbackSelection() selection {
	return selection{
		exercise: models.Exercise{
			ID:             FallbackExerciseID,
			Name:           "Push-Ups",
			PrimaryMuscles: []string{"chest"},
			Equipment:      []string{string(equipment.Bodyweight)},
		},
		availability: equipment.Availability{CanPerform: true, IsFullySupported: true},
		fallback:     true,
	}
}

func (p *Planner) templates(sel []selection, req DayRequest) []models.ExerciseTemplate {
	sets := SetsFor(req.Experience)
	reps, rest := Prescription(req.Goal)

	out := make([]models.ExerciseTemplate, 0, len(sel))
	for _, s := range sel {
		out = append(out, models.ExerciseTemplate{
			ExerciseID: s.exercise.ID,
			Sets:       sets,
			Reps:       reps,
			RestTime:   rest,
			Notes:      notesFor(s),
		})
	}
	return out
}

func notesFor(s selection) string {
	if s.fallback {
		return "fallback: no matching exercise for the available equipment"
	}
	if len(s.availability.Substitutions) == 0 {
		return ""
	}
	keys := make([]string, 0, len(s.availability.Substitutions))
	for req := range s.availability.Substitutions {
		keys = append(keys, string(req))
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s→%s", k, s.availability.Substitutions[equipment.Tag(k)])
	}
	return "substitute: " + strings.Join(parts, ", ")
}

// Generate wraps SelectExercisesForDay for UI callers: a panic inside
// selection becomes an empty list with a warning and a zero score.
func (p *Planner) Generate(req DayRequest) (res GenerationResult) {
	defer func() {
		if r := recover(); r != nil {
			if p.log != nil {
				p.log.Error("exercise generation failed", "day", req.DayLabel, "panic", r)
			}
			res = GenerationResult{
				Exercises: []models.ExerciseTemplate{},
				Warning:   "לא הצלחנו ליצור אימון כרגע. Could not generate a workout, please try again.",
			}
		}
	}()

	if !muscles.Known(req.DayLabel) && p.log != nil {
		p.log.Debug("unknown day label, using default groups", "day", req.DayLabel)
	}
	sel := p.selectForDay(req)
	res.Exercises = p.templates(sel, req)

	var total float64
	substituted := 0
	for _, s := range sel {
		total += s.availability.Score()
		if !s.availability.IsFullySupported {
			substituted++
		}
	}
	res.AvailabilityScore = total / float64(len(sel))

	switch {
	case len(sel) == 1 && sel[0].fallback:
		res.Warning = "No exercises in the catalog match this day with your equipment; showing a bodyweight fallback."
	case substituted > 0:
		res.Warning = fmt.Sprintf("%d exercise(s) use substitute equipment.", substituted)
	}
	return res
}

// PlanRequest describes a multi-day plan.
type PlanRequest struct {
	Name            string   `json:"name"`
	DaysPerWeek     int      `json:"daysPerWeek"`
	Equipment       []string `json:"equipment"`
	Experience      string   `json:"experience"`
	DurationMinutes int      `json:"duration"`
	Goal            string   `json:"goal"`
}

// DayLabels returns the day split used for a weekly frequency.
func DayLabels(daysPerWeek int) []string {
	switch {
	case daysPerWeek <= 0:
		return []string{"דחיפה", "משיכה", "רגליים"}
	case daysPerWeek == 1:
		return []string{"גוף מלא"}
	case daysPerWeek == 2:
		return []string{"פלג גוף עליון", "פלג גוף תחתון"}
	case daysPerWeek == 3:
		return []string{"דחיפה", "משיכה", "רגליים"}
	case daysPerWeek == 4:
		return []string{"פלג גוף עליון", "פלג גוף תחתון", "פלג גוף עליון", "פלג גוף תחתון"}
	case daysPerWeek == 5:
		return []string{"חזה", "גב", "רגליים", "כתפיים", "ידיים"}
	default:
		return []string{"חזה", "גב", "רגליים", "כתפיים", "ידיים", "בטן"}
	}
}

// GeneratePlan builds one WorkoutDay per label of the weekly split. Each day
// goes through Generate, so a failing day becomes an empty day plus a plan
// warning.
func (p *Planner) GeneratePlan(req PlanRequest) models.WorkoutPlan {
	labels := DayLabels(req.DaysPerWeek)
	seen := make(map[string]int, len(labels))

	plan := models.WorkoutPlan{
		ID:        uuid.NewString(),
		Name:      req.Name,
		CreatedAt: p.now().UTC(),
		Days:      make([]models.WorkoutDay, 0, len(labels)),
	}
	if plan.Name == "" {
		plan.Name = fmt.Sprintf("תוכנית %d ימים", len(labels))
	}

	for _, label := range labels {
		seen[label]++
		name := label
		if seen[label] > 1 {
			name = fmt.Sprintf("%s %c", label, 'A'+rune(seen[label]-1))
		}
		res := p.Generate(DayRequest{
			DayLabel:        label,
			Equipment:       req.Equipment,
			Experience:      req.Experience,
			DurationMinutes: req.DurationMinutes,
			Goal:            req.Goal,
		})
		if res.Warning != "" {
			plan.Warnings = append(plan.Warnings, name+": "+res.Warning)
		}
		plan.Days = append(plan.Days, models.WorkoutDay{
			Name:              name,
			Exercises:         res.Exercises,
			EstimatedDuration: EstimateMinutes(res.Exercises),
			TargetMuscles:     muscles.ForDay(label),
		})
	}
	return plan
}

// EstimateMinutes approximates session length from sets and rest.
func EstimateMinutes(templates []models.ExerciseTemplate) int {
	seconds := 0
	for _, t := range templates {
		seconds += t.Sets * (workSeconds + t.RestTime)
	}
	return (seconds + 30) / 60
}
