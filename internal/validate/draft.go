package validate

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/models"
)

// DraftResult is a parsed draft envelope along with the validation of the
// workout it carries.
type DraftResult struct {
	SavedAt time.Time
	Version int
	Result  Result
}

// Workout returns the workout to use for the draft: always the corrected copy.
func (d DraftResult) Workout() *models.WorkoutData {
	return d.Result.Corrected
}

type rawDraft struct {
	Workout   models.RawWorkout `json:"workout"`
	LastSaved any               `json:"lastSaved"`
	Version   any               `json:"version"`
}

// Draft parses a persisted draft envelope. An error means the entry is
// corrupt and cannot be repaired: the envelope is not JSON, the workout is
// missing or lastSaved is unusable. Anything inside the workout that can be
// repaired is reported on the embedded Result instead.
func Draft(data []byte, now time.Time) (DraftResult, error) {
	var env rawDraft
	if err := json.Unmarshal(data, &env); err != nil {
		return DraftResult{}, fmt.Errorf("parsing draft envelope: %w", err)
	}
	if env.Workout == nil {
		return DraftResult{}, fmt.Errorf("draft has no workout")
	}
	if env.LastSaved == nil {
		return DraftResult{}, fmt.Errorf("draft has no lastSaved")
	}
	saved, err := ParseTime(env.LastSaved)
	if err != nil {
		return DraftResult{}, fmt.Errorf("parsing draft lastSaved: %w", err)
	}

	version := 0
	if n, ok := numberOf(env.Version); ok && n > 0 {
		version = clampInt(n, 0, 1<<31-1)
	}

	return DraftResult{
		SavedAt: saved.UTC(),
		Version: version,
		Result:  Workout(env.Workout, now),
	}, nil
}
