package planner

import "strings"

// Experience levels.
const (
	Beginner     = "beginner"
	Intermediate = "intermediate"
	Advanced     = "advanced"
	Expert       = "expert"
)

// Training goals.
const (
	GoalStrength   = "strength"
	GoalMuscleGain = "muscle_gain"
	GoalWeightLoss = "weight_loss"
	GoalEndurance  = "endurance"
)

const (
	minExercises = 4
	maxExercises = 8

	// workSeconds is the assumed time under tension per set, used only for
	// duration estimates.
	workSeconds = 45
)

// ExerciseCount returns how many exercises fit in a session of the given
// length: one per ten minutes, clamped to [4, 8].
func ExerciseCount(durationMinutes int) int {
	n := durationMinutes / 10
	if n < minExercises {
		return minExercises
	}
	if n > maxExercises {
		return maxExercises
	}
	return n
}

// SetsFor returns the per-exercise set count for an experience level.
func SetsFor(experience string) int {
	switch strings.ToLower(strings.TrimSpace(experience)) {
	case Intermediate:
		return 4
	case Advanced, Expert:
		return 5
	default:
		return 3
	}
}

// Prescription returns the rep range and rest (seconds) for a goal.
func Prescription(goal string) (reps string, rest int) {
	switch strings.ToLower(strings.TrimSpace(goal)) {
	case GoalStrength:
		return "4-6", 120
	case GoalMuscleGain:
		return "8-12", 75
	case GoalWeightLoss:
		return "12-15", 45
	case GoalEndurance:
		return "15-20", 30
	default:
		return "10-12", 60
	}
}
