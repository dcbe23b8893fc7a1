package equipment

// substitutions lists acceptable fallbacks per tag, most similar first.
// Every list except Bodyweight's ends in Bodyweight.
var substitutions = map[Tag][]Tag{
	Bodyweight:     {},
	Dumbbell:       {Kettlebell, ResistanceBand, CableMachine, Bodyweight},
	Barbell:        {Dumbbell, SmithMachine, Kettlebell, ResistanceBand, Bodyweight},
	Kettlebell:     {Dumbbell, ResistanceBand, Bodyweight},
	ResistanceBand: {CableMachine, Dumbbell, Bodyweight},
	CableMachine:   {ResistanceBand, Dumbbell, Machine, Bodyweight},
	Machine:        {Dumbbell, CableMachine, ResistanceBand, Bodyweight},
	Bench:          {ExerciseBall, YogaMat, Bodyweight},
	PullupBar:      {TRX, ResistanceBand, Bodyweight},
	TRX:            {PullupBar, ResistanceBand, Bodyweight},
	MedicineBall:   {Kettlebell, Dumbbell, Bodyweight},
	FoamRoller:     {YogaMat, Bodyweight},
	YogaMat:        {Bodyweight},
	ExerciseBall:   {Bench, Bodyweight},
	SmithMachine:   {Barbell, Dumbbell, Machine, Bodyweight},
	SquatRack:      {Barbell, SmithMachine, Dumbbell, Bodyweight},
	Treadmill:      {StationaryBike, JumpRope, Bodyweight},
	StationaryBike: {Treadmill, RowingMachine, JumpRope, Bodyweight},
	RowingMachine:  {StationaryBike, CableMachine, Bodyweight},
	JumpRope:       {Bodyweight},
	DipStation:     {Bench, Bodyweight},
}

// Substitutes returns a copy of the fallback list for t.
func Substitutes(t Tag) []Tag {
	list := substitutions[t]
	out := make([]Tag, len(list))
	copy(out, list)
	return out
}

// FindSubstitute returns the first fallback for required that the user owns.
// When no listed fallback is owned, Bodyweight is accepted as a last resort.
// ok is false only when owned holds nothing usable at all.
func FindSubstitute(required Tag, owned TagSet) (Tag, bool) {
	for _, alt := range substitutions[required] {
		if owned.Has(alt) {
			return alt, true
		}
	}
	if owned.Has(Bodyweight) {
		return Bodyweight, true
	}
	// Normalize always yields Bodyweight, so only hand-built sets reach here.
	return "", false
}
