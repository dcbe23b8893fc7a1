package planner

import "testing"

// TestExerciseCount verifies the duration clamp.
func TestExerciseCount(t *testing.T) {
	tests := []struct {
		minutes int
		want    int
	}{
		{-10, 4}, {0, 4}, {39, 4}, {45, 4}, {50, 5}, {79, 7}, {80, 8}, {500, 8},
	}
	for _, tt := range tests {
		if got := ExerciseCount(tt.minutes); got != tt.want {
			t.Errorf("ExerciseCount(%d) = %d, want %d", tt.minutes, got, tt.want)
		}
	}
}

// TestSetsFor verifies the experience step function.
func TestSetsFor(t *testing.T) {
	tests := map[string]int{
		"beginner":     3,
		"Intermediate": 4,
		"advanced":     5,
		"expert":       5,
		"":             3,
		"wizard":       3,
	}
	for level, want := range tests {
		if got := SetsFor(level); got != want {
			t.Errorf("SetsFor(%q) = %d, want %d", level, got, want)
		}
	}
}

// TestPrescription verifies the goal step function.
func TestPrescription(t *testing.T) {
	tests := []struct {
		goal string
		reps string
		rest int
	}{
		{"strength", "4-6", 120},
		{"muscle_gain", "8-12", 75},
		{"weight_loss", "12-15", 45},
		{"endurance", "15-20", 30},
		{"", "10-12", 60},
		{"general_fitness", "10-12", 60},
	}
	for _, tt := range tests {
		reps, rest := Prescription(tt.goal)
		if reps != tt.reps || rest != tt.rest {
			t.Errorf("Prescription(%q) = %s/%d, want %s/%d", tt.goal, reps, rest, tt.reps, tt.rest)
		}
	}
}
