package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/catalog"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/models"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/planner"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/validate"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	catalogPath := flag.String("catalog", "", "exercise catalog YAML (embedded catalog when empty)")
	day := flag.String("day", "", "generate a single day for this label (e.g. push, חזה)")
	days := flag.Int("days", 3, "training days per week when generating a plan")
	name := flag.String("name", "", "plan name")
	equipmentList := flag.String("equipment", "", "comma-separated equipment the user owns")
	experience := flag.String("experience", planner.Beginner, "beginner, intermediate, advanced or expert")
	duration := flag.Int("duration", 45, "session length in minutes")
	goal := flag.String("goal", "", "strength, muscle_gain, weight_loss, endurance or general_fitness")
	validatePath := flag.String("validate", "", "validate a workout JSON file instead of generating")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("gymovoo-plan", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if *validatePath != "" {
		res, err := validateFile(*validatePath)
		if err != nil {
			log.Error("validation failed", "path", *validatePath, "error", err)
			os.Exit(1)
		}
		printJSON(log, res)
		if !res.IsValid {
			os.Exit(2)
		}
		return
	}

	var cat *catalog.Catalog
	var err error
	if *catalogPath != "" {
		cat, err = catalog.Load(*catalogPath)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	p := planner.New(cat, log)
	owned := splitList(*equipmentList)

	if *day != "" {
		res := p.Generate(planner.DayRequest{
			DayLabel:        *day,
			Equipment:       owned,
			Experience:      *experience,
			DurationMinutes: *duration,
			Goal:            *goal,
		})
		if res.Warning != "" {
			log.Warn(res.Warning)
		}
		printJSON(log, res)
		return
	}

	printJSON(log, p.GeneratePlan(planner.PlanRequest{
		Name:            *name,
		DaysPerWeek:     *days,
		Equipment:       owned,
		Experience:      *experience,
		DurationMinutes: *duration,
		Goal:            *goal,
	}))
}

func validateFile(path string) (validate.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return validate.Result{}, fmt.Errorf("reading workout: %w", err)
	}
	var raw models.RawWorkout
	if err := json.Unmarshal(data, &raw); err != nil {
		return validate.Result{}, fmt.Errorf("parsing workout: %w", err)
	}
	return validate.Workout(raw, time.Now()), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printJSON(log *slog.Logger, v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Error("encoding output", "error", err)
		os.Exit(1)
	}
}
