package equipment

// Availability scores.
const (
	ScoreFullySupported = 1.0
	ScoreSubstituted    = 0.8
	ScoreUnavailable    = 0.0
)

// Availability is the substitution-aware verdict for one exercise.
type Availability struct {
	CanPerform       bool        `json:"canPerform"`
	IsFullySupported bool        `json:"isFullySupported"`
	Substitutions    map[Tag]Tag `json:"substitutions,omitempty"`
}

// Score ranks the verdict: fully supported > substituted > not performable.
func (a Availability) Score() float64 {
	switch {
	case a.IsFullySupported:
		return ScoreFullySupported
	case a.CanPerform:
		return ScoreSubstituted
	default:
		return ScoreUnavailable
	}
}

// CanPerform is the strict check: every required tag must be owned.
// Bodyweight is always available and an empty requirement is satisfied.
// It never considers substitutes; use ExerciseAvailability for that.
func CanPerform(required []Tag, owned TagSet) bool {
	for _, t := range required {
		if t == Bodyweight {
			continue
		}
		if !owned.Has(t) {
			return false
		}
	}
	return true
}

// ExerciseAvailability resolves required against owned, substituting unmet
// tags where the substitution graph allows it.
func ExerciseAvailability(required []Tag, owned TagSet) Availability {
	if CanPerform(required, owned) {
		return Availability{CanPerform: true, IsFullySupported: true}
	}

	subs := make(map[Tag]Tag)
	for _, t := range required {
		if t == Bodyweight || owned.Has(t) {
			continue
		}
		alt, ok := FindSubstitute(t, owned)
		if !ok {
			return Availability{}
		}
		subs[t] = alt
	}
	return Availability{CanPerform: true, Substitutions: subs}
}
