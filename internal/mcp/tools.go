package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/equipment"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/models"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/planner"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/validate"
	"github.com/mark3labs/mcp-go/mcp"
)

// splitList parses a comma-separated argument, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// --- Tool definitions ---

var toolNormalizeEquipment = mcp.NewTool("normalize_equipment",
	mcp.WithDescription("Map free-form equipment names (English or Hebrew, e.g. 'dumbbells', 'משקולות', 'pull-up bar') to canonical tags. Bodyweight is always included; unknown names are listed as ignored."),
	mcp.WithString("equipment", mcp.Required(), mcp.Description("Comma-separated equipment names")),
)

var toolCheckAvailability = mcp.NewTool("check_availability",
	mcp.WithDescription("Check whether an exercise can be performed with the given equipment, directly or through substitutes. Returns the substitutions used and a score (1 fully supported, 0.8 substituted, 0 not performable)."),
	mcp.WithString("exercise_id", mcp.Description("Catalog exercise id. Either this or required must be set.")),
	mcp.WithString("required", mcp.Description("Comma-separated required equipment tags")),
	mcp.WithString("owned", mcp.Description("Comma-separated equipment the user owns")),
)

var toolSelectExercises = mcp.NewTool("select_exercises",
	mcp.WithDescription("Select 4 to 8 exercises for a workout day (e.g. 'push', 'חזה', 'upper body') that the user can perform with their equipment, with sets, reps and rest."),
	mcp.WithString("day_label", mcp.Required(), mcp.Description("Day label such as push, pull, legs, chest, back, full body, or the Hebrew equivalents")),
	mcp.WithString("equipment", mcp.Description("Comma-separated equipment the user owns. Defaults to bodyweight only.")),
	mcp.WithString("experience", mcp.Description("Experience level. Defaults to beginner."), mcp.Enum("beginner", "intermediate", "advanced", "expert")),
	mcp.WithNumber("duration", mcp.Description("Session length in minutes. Defaults to 45.")),
	mcp.WithString("goal", mcp.Description("Training goal. Defaults to general fitness."), mcp.Enum("strength", "muscle_gain", "weight_loss", "endurance", "general_fitness")),
)

var toolGeneratePlan = mcp.NewTool("generate_plan",
	mcp.WithDescription("Generate a weekly plan with one workout day per training day. The split depends on days per week (full body, upper/lower, push/pull/legs or body-part days)."),
	mcp.WithNumber("days_per_week", mcp.Description("Training days per week, 1 to 6. Defaults to 3.")),
	mcp.WithString("name", mcp.Description("Plan name")),
	mcp.WithString("equipment", mcp.Description("Comma-separated equipment the user owns")),
	mcp.WithString("experience", mcp.Description("Experience level. Defaults to beginner."), mcp.Enum("beginner", "intermediate", "advanced", "expert")),
	mcp.WithNumber("duration", mcp.Description("Session length in minutes. Defaults to 45.")),
	mcp.WithString("goal", mcp.Description("Training goal. Defaults to general fitness."), mcp.Enum("strength", "muscle_gain", "weight_loss", "endurance", "general_fitness")),
)

var toolValidateWorkout = mcp.NewTool("validate_workout",
	mcp.WithDescription("Validate and sanitize a workout record. Returns errors, warnings and a corrected copy that should be preferred over the input."),
	mcp.WithString("workout", mcp.Required(), mcp.Description("Workout as a JSON object string")),
)

var toolRecoverDraft = mcp.NewTool("recover_draft",
	mcp.WithDescription("Return the most recently auto-saved workout draft that has not expired, if any."),
)

var toolDiscardDraft = mcp.NewTool("discard_draft",
	mcp.WithDescription("Delete the auto-saved draft of a workout."),
	mcp.WithString("workout_id", mcp.Required(), mcp.Description("Workout id of the draft")),
)

// --- Tool handlers ---

func (h *handlers) normalizeEquipment(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("equipment")
	if err != nil {
		return mcp.NewToolResultError("equipment parameter is required"), nil
	}
	names := splitList(raw)
	_, unknown := equipment.ParseTags(names)
	if unknown == nil {
		unknown = []string{}
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"tags":    equipment.Normalize(names).Strings(),
		"ignored": unknown,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) checkAvailability(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var required []equipment.Tag
	if id := req.GetString("exercise_id", ""); id != "" {
		if _, ok := h.catalog.Get(id); !ok {
			return mcp.NewToolResultError("unknown exercise: " + id), nil
		}
		required = h.catalog.Required(id)
	} else {
		raw := req.GetString("required", "")
		if raw == "" {
			return mcp.NewToolResultError("exercise_id or required is required"), nil
		}
		var unknown []string
		required, unknown = equipment.ParseTags(splitList(raw))
		if len(unknown) > 0 {
			return mcp.NewToolResultError("unknown equipment: " + strings.Join(unknown, ", ")), nil
		}
	}

	owned := equipment.Normalize(splitList(req.GetString("owned", "")))
	a := equipment.ExerciseAvailability(required, owned)

	result, err := mcp.NewToolResultJSON(map[string]any{
		"canPerform":       a.CanPerform,
		"isFullySupported": a.IsFullySupported,
		"canPerformDirect": equipment.CanPerform(required, owned),
		"substitutions":    a.Substitutions,
		"score":            a.Score(),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) selectExercises(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, err := req.RequireString("day_label")
	if err != nil {
		return mcp.NewToolResultError("day_label parameter is required"), nil
	}

	gen := h.planner.Generate(planner.DayRequest{
		DayLabel:        label,
		Equipment:       splitList(req.GetString("equipment", "")),
		Experience:      req.GetString("experience", planner.Beginner),
		DurationMinutes: req.GetInt("duration", 45),
		Goal:            req.GetString("goal", ""),
	})

	result, err := mcp.NewToolResultJSON(gen)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) generatePlan(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan := h.planner.GeneratePlan(planner.PlanRequest{
		Name:            req.GetString("name", ""),
		DaysPerWeek:     req.GetInt("days_per_week", 3),
		Equipment:       splitList(req.GetString("equipment", "")),
		Experience:      req.GetString("experience", planner.Beginner),
		DurationMinutes: req.GetInt("duration", 45),
		Goal:            req.GetString("goal", ""),
	})

	result, err := mcp.NewToolResultJSON(plan)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) validateWorkout(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body, err := req.RequireString("workout")
	if err != nil {
		return mcp.NewToolResultError("workout parameter is required"), nil
	}
	var raw models.RawWorkout
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return mcp.NewToolResultError("workout is not a JSON object: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(validate.Workout(raw, h.now()))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) recoverDraft(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := h.drafts.Recover(ctx)
	if err != nil {
		h.log.Error("mcp recover_draft", "error", err)
		return mcp.NewToolResultError("draft recovery failed: " + err.Error()), nil
	}
	if rec == nil {
		return mcp.NewToolResultText("No draft to recover."), nil
	}

	result, err := mcp.NewToolResultJSON(rec)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) discardDraft(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("workout_id")
	if err != nil {
		return mcp.NewToolResultError("workout_id parameter is required"), nil
	}
	if err := h.drafts.Discard(ctx, id); err != nil {
		h.log.Error("mcp discard_draft", "error", err)
		return mcp.NewToolResultError("discard failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText("Draft discarded."), nil
}
