package models

import "time"

// Exercise is a catalog entry. Catalog entries are never mutated at runtime.
type Exercise struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	NameHe           string   `json:"nameHe,omitempty" yaml:"name_he"`
	Category         string   `json:"category" yaml:"category"`
	PrimaryMuscles   []string `json:"primaryMuscles" yaml:"primary_muscles"`
	SecondaryMuscles []string `json:"secondaryMuscles,omitempty" yaml:"secondary_muscles"`
	Equipment        []string `json:"equipment" yaml:"equipment"`
	Difficulty       string   `json:"difficulty,omitempty" yaml:"difficulty"`
	Instructions     []string `json:"instructions,omitempty" yaml:"instructions"`
}

// ExerciseTemplate is one selected exercise with its prescription.
type ExerciseTemplate struct {
	ExerciseID string `json:"exerciseId"`
	Sets       int    `json:"sets"`
	Reps       string `json:"reps"`
	RestTime   int    `json:"restTime"` // seconds
	Notes      string `json:"notes,omitempty"`
}

// WorkoutDay groups the templates generated for one day label.
type WorkoutDay struct {
	Name              string             `json:"name"`
	Exercises         []ExerciseTemplate `json:"exercises"`
	EstimatedDuration int                `json:"estimatedDuration"` // minutes
	TargetMuscles     []string           `json:"targetMuscles"`
}

// WorkoutPlan is a multi-day plan.
type WorkoutPlan struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Days      []WorkoutDay `json:"days"`
	CreatedAt time.Time    `json:"createdAt"`
	Warnings  []string     `json:"warnings,omitempty"`
}

// Set is a single planned or performed set.
type Set struct {
	ID           string   `json:"id"`
	Type         string   `json:"type,omitempty"`
	TargetReps   int      `json:"targetReps,omitempty"`
	TargetWeight float64  `json:"targetWeight,omitempty"`
	ActualReps   int      `json:"actualReps,omitempty"`
	ActualWeight float64  `json:"actualWeight,omitempty"`
	Completed    bool     `json:"completed"`
	IsPR         bool     `json:"isPR,omitempty"`
	RPE          *float64 `json:"rpe,omitempty"`
}

// WorkoutExercise is an exercise inside a live workout, carrying concrete sets.
type WorkoutExercise struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category,omitempty"`
	PrimaryMuscles []string `json:"primaryMuscles,omitempty"`
	Equipment      string   `json:"equipment,omitempty"`
	Sets           []Set    `json:"sets"`
	RestTime       int      `json:"restTime,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// WorkoutData is an in-progress or finished workout session.
// CompletedSets never exceeds TotalSets once validated.
type WorkoutData struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	StartTime     *time.Time        `json:"startTime,omitempty"`
	EndTime       *time.Time        `json:"endTime,omitempty"`
	Duration      int               `json:"duration"` // seconds
	Exercises     []WorkoutExercise `json:"exercises"`
	PlannedSets   int               `json:"plannedSets"`
	CompletedSets int               `json:"completedSets"`
	TotalSets     int               `json:"totalSets"`
	Notes         string            `json:"notes,omitempty"`
}

// WorkoutDraft is the persisted crash-recovery snapshot.
type WorkoutDraft struct {
	Workout   WorkoutData `json:"workout"`
	LastSaved string      `json:"lastSaved"`
	Version   int         `json:"version"`
}

// RawWorkout is untrusted, loosely-typed workout JSON. Only the validate
// package turns it into a WorkoutData.
type RawWorkout map[string]any
