// Package equipment normalizes free-form equipment names into canonical tags
// and decides whether an exercise can be performed with what a user owns.
package equipment

import (
	"sort"
	"strings"
	"unicode"
)

// Tag is a canonical equipment tag.
type Tag string

// Canonical equipment vocabulary.
const (
	Bodyweight     Tag = "bodyweight"
	Dumbbell       Tag = "dumbbell"
	Barbell        Tag = "barbell"
	Kettlebell     Tag = "kettlebell"
	ResistanceBand Tag = "resistance_band"
	CableMachine   Tag = "cable_machine"
	Machine        Tag = "machine"
	Bench          Tag = "bench"
	PullupBar      Tag = "pullup_bar"
	TRX            Tag = "trx"
	MedicineBall   Tag = "medicine_ball"
	FoamRoller     Tag = "foam_roller"
	YogaMat        Tag = "yoga_mat"
	ExerciseBall   Tag = "exercise_ball"
	SmithMachine   Tag = "smith_machine"
	SquatRack      Tag = "squat_rack"
	Treadmill      Tag = "treadmill"
	StationaryBike Tag = "stationary_bike"
	RowingMachine  Tag = "rowing_machine"
	JumpRope       Tag = "jump_rope"
	DipStation     Tag = "dip_station"
)

var vocabulary = map[Tag]bool{
	Bodyweight: true, Dumbbell: true, Barbell: true, Kettlebell: true,
	ResistanceBand: true, CableMachine: true, Machine: true, Bench: true,
	PullupBar: true, TRX: true, MedicineBall: true, FoamRoller: true,
	YogaMat: true, ExerciseBall: true, SmithMachine: true, SquatRack: true,
	Treadmill: true, StationaryBike: true, RowingMachine: true, JumpRope: true,
	DipStation: true,
}

// synonyms maps cleaned alias tokens to canonical tags.
var synonyms = map[string]Tag{
	// bodyweight
	"none":            Bodyweight,
	"no_equipment":    Bodyweight,
	"body_weight":     Bodyweight,
	"body":            Bodyweight,
	"bodyweight_only": Bodyweight,
	"ללא_ציוד":        Bodyweight,
	"משקל_גוף":        Bodyweight,

	// free weights
	"dumbbells":            Dumbbell,
	"db":                   Dumbbell,
	"free_weights":         Dumbbell,
	"adjustable_dumbbells": Dumbbell,
	"משקולות":              Dumbbell,
	"משקולות_יד":           Dumbbell,
	"barbells":             Barbell,
	"bb":                   Barbell,
	"olympic_bar":          Barbell,
	"ez_bar":               Barbell,
	"מוט":                  Barbell,
	"מוט_אולימפי":          Barbell,
	"kettlebells":          Kettlebell,
	"kb":                   Kettlebell,
	"קטלבל":                Kettlebell,

	// bands and cables
	"band":             ResistanceBand,
	"bands":            ResistanceBand,
	"resistance_bands": ResistanceBand,
	"elastic_band":     ResistanceBand,
	"gumiyot":          ResistanceBand,
	"גומיות":           ResistanceBand,
	"גומיית_התנגדות":   ResistanceBand,
	"cable":            CableMachine,
	"cables":           CableMachine,
	"cable_station":    CableMachine,
	"pulley":           CableMachine,
	"כבלים":            CableMachine,

	// machines and stations
	"machines":      Machine,
	"gym_machine":   Machine,
	"מכונה":         Machine,
	"מכשירים":       Machine,
	"smith":         SmithMachine,
	"rack":          SquatRack,
	"power_rack":    SquatRack,
	"squat_stand":   SquatRack,
	"dip_bars":      DipStation,
	"parallel_bars": DipStation,
	"מקבילים":       DipStation,

	// bars and suspension
	"pull_up_bar":         PullupBar,
	"pullupbar":           PullupBar,
	"chin_up_bar":         PullupBar,
	"doorway_pull_up_bar": PullupBar,
	"door_bar":            PullupBar,
	"מתח":                 PullupBar,
	"מוט_מתח":             PullupBar,
	"suspension_trainer":  TRX,
	"suspension":          TRX,

	// accessories
	"flat_bench":       Bench,
	"adjustable_bench": Bench,
	"ספסל":             Bench,
	"med_ball":         MedicineBall,
	"medicine_balls":   MedicineBall,
	"foam":             FoamRoller,
	"roller":           FoamRoller,
	"mat":              YogaMat,
	"exercise_mat":     YogaMat,
	"מזרן":             YogaMat,
	"swiss_ball":       ExerciseBall,
	"stability_ball":   ExerciseBall,
	"fitball":          ExerciseBall,
	"rope":             JumpRope,
	"skipping_rope":    JumpRope,
	"חבל_קפיצה":        JumpRope,

	// cardio
	"running_machine": Treadmill,
	"הליכון":          Treadmill,
	"bike":            StationaryBike,
	"exercise_bike":   StationaryBike,
	"spin_bike":       StationaryBike,
	"אופני_כושר":      StationaryBike,
	"rower":           RowingMachine,
	"rowing":          RowingMachine,
}

// IsKnown reports whether t is part of the canonical vocabulary.
func IsKnown(t Tag) bool {
	return vocabulary[t]
}

// All returns the canonical vocabulary sorted by name.
func All() []Tag {
	tags := make([]Tag, 0, len(vocabulary))
	for t := range vocabulary {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// clean lower-cases s and joins whitespace/hyphen runs with a single underscore.
func clean(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_'
	})
	return strings.Join(fields, "_")
}

// lookup resolves a raw string to a canonical tag.
func lookup(raw string) (Tag, bool) {
	token := clean(raw)
	if token == "" {
		return "", false
	}
	if vocabulary[Tag(token)] {
		return Tag(token), true
	}
	t, ok := synonyms[token]
	return t, ok
}

// TagSet is an unordered set of canonical tags.
type TagSet map[Tag]struct{}

// NewTagSet builds a set from tags without normalizing them.
func NewTagSet(tags ...Tag) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether t is in the set.
func (s TagSet) Has(t Tag) bool {
	_, ok := s[t]
	return ok
}

// Slice returns the tags in sorted order.
func (s TagSet) Slice() []Tag {
	out := make([]Tag, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the tags as sorted plain strings.
func (s TagSet) Strings() []string {
	tags := s.Slice()
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

// Normalize maps free-form equipment names to canonical tags. Unknown names
// are dropped. The result always contains Bodyweight.
func Normalize(raw []string) TagSet {
	out := NewTagSet(Bodyweight)
	for _, r := range raw {
		if t, ok := lookup(r); ok {
			out[t] = struct{}{}
		}
	}
	return out
}

// ParseTags resolves an exercise's requirement strings. Names that are not
// canonical tags or known aliases are returned separately in unknown.
func ParseTags(raw []string) (tags []Tag, unknown []string) {
	seen := make(map[Tag]bool, len(raw))
	for _, r := range raw {
		t, ok := lookup(r)
		if !ok {
			if strings.TrimSpace(r) != "" {
				unknown = append(unknown, r)
			}
			continue
		}
		if !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}
	return tags, unknown
}
