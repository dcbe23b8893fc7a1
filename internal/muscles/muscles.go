// Package muscles maps workout-day labels to target muscle groups and matches
// catalog exercises against them in Hebrew or English.
package muscles

import (
	"strings"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/models"
)

// DefaultGroups is used for day labels that are not in the table.
var DefaultGroups = []string{"chest", "back"}

var (
	pushGroups  = []string{"chest", "shoulders", "triceps"}
	pullGroups  = []string{"back", "biceps"}
	legGroups   = []string{"quadriceps", "hamstrings", "glutes", "calves"}
	fullGroups  = []string{"chest", "back", "quadriceps", "shoulders", "core"}
	upperGroups = []string{"chest", "back", "shoulders", "biceps", "triceps"}
	armGroups   = []string{"biceps", "triceps", "forearms"}
	coreGroups  = []string{"core"}
)

// dayGroups is keyed by the cleaned day label.
var dayGroups = map[string][]string{
	"דחיפה":         pushGroups,
	"push":          pushGroups,
	"משיכה":         pullGroups,
	"pull":          pullGroups,
	"רגליים":        legGroups,
	"legs":          legGroups,
	"פלג גוף תחתון": legGroups,
	"lower body":    legGroups,
	"lower":         legGroups,
	"גוף מלא":       fullGroups,
	"full body":     fullGroups,
	"fullbody":      fullGroups,
	"פלג גוף עליון": upperGroups,
	"upper body":    upperGroups,
	"upper":         upperGroups,
	"חזה":           {"chest", "triceps"},
	"chest":         {"chest", "triceps"},
	"חזה וטרייספס":  {"chest", "triceps"},
	"גב":            pullGroups,
	"back":          pullGroups,
	"גב וביספס":     pullGroups,
	"כתפיים":        {"shoulders"},
	"shoulders":     {"shoulders"},
	"ידיים":         armGroups,
	"arms":          armGroups,
	"בטן":           coreGroups,
	"core":          coreGroups,
	"abs":           coreGroups,
	"אימון a":       pushGroups,
	"אימון b":       pullGroups,
	"אימון c":       legGroups,
	"workout a":     pushGroups,
	"workout b":     pullGroups,
	"workout c":     legGroups,
}

// equivalents groups terms that name the same muscle group across languages.
// The first entry of each group is the canonical English token.
var equivalents = [][]string{
	{"chest", "pectoral", "pecs", "חזה"},
	{"back", "lats", "latissimus", "rhomboids", "traps", "trapezius", "גב"},
	{"shoulders", "deltoids", "delts", "כתפיים", "כתף"},
	{"biceps", "ביספס", "דו ראשי"},
	{"triceps", "טרייספס", "תלת ראשי"},
	{"forearms", "אמות", "אמה"},
	{"quadriceps", "quads", "ארבע ראשי", "ירך קדמית"},
	{"hamstrings", "מיתר הברך", "ירך אחורית"},
	{"glutes", "gluteus", "ישבן", "עכוז"},
	{"calves", "calf", "שוקיים", "תאומים"},
	{"core", "abs", "abdominals", "obliques", "בטן", "ליבה"},
	{"legs", "רגליים"},
	{"cardio", "קרדיו"},
}

func cleanLabel(label string) string {
	s := strings.ToLower(strings.Join(strings.Fields(label), " "))
	s = strings.TrimPrefix(s, "יום ")
	s = strings.TrimSuffix(s, " day")
	s = strings.TrimSuffix(s, " workout")
	return strings.TrimSpace(s)
}

// ForDay returns the target muscle groups for a day label. It never returns
// an empty slice.
func ForDay(label string) []string {
	groups, ok := dayGroups[cleanLabel(label)]
	if !ok {
		groups = DefaultGroups
	}
	out := make([]string, len(groups))
	copy(out, groups)
	return out
}

// Known reports whether the label has its own entry in the day table.
func Known(label string) bool {
	_, ok := dayGroups[cleanLabel(label)]
	return ok
}

// Matches reports whether any of the exercise's primary muscles matches any
// target group, first by substring containment and then through the
// Hebrew/English equivalence table.
func Matches(ex models.Exercise, targets []string) bool {
	for _, m := range ex.PrimaryMuscles {
		muscle := strings.ToLower(strings.TrimSpace(m))
		if muscle == "" {
			continue
		}
		for _, t := range targets {
			target := strings.ToLower(strings.TrimSpace(t))
			if target == "" {
				continue
			}
			if strings.Contains(muscle, target) || strings.Contains(target, muscle) {
				return true
			}
			if equivalent(muscle, target) {
				return true
			}
		}
	}
	return false
}

// Canonical returns the canonical English token for a muscle term, or the
// lower-cased term itself when it is not in the equivalence table.
func Canonical(term string) string {
	t := strings.ToLower(strings.TrimSpace(term))
	for _, group := range equivalents {
		if inGroup(t, group) {
			return group[0]
		}
	}
	return t
}

func equivalent(a, b string) bool {
	for _, group := range equivalents {
		if inGroup(a, group) && inGroup(b, group) {
			return true
		}
	}
	return false
}

func inGroup(term string, group []string) bool {
	for _, alias := range group {
		if term == alias || strings.Contains(term, alias) {
			return true
		}
	}
	return false
}
