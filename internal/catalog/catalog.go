// Package catalog holds the static exercise catalog the planner selects from.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/equipment"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed exercises.yaml
var bundled []byte

// Catalog is an immutable, ordered list of exercises.
type Catalog struct {
	exercises []models.Exercise
	required  map[string][]equipment.Tag
	byID      map[string]int
}

type file struct {
	Exercises []models.Exercise `yaml:"exercises"`
}

// Default parses the bundled catalog.
func Default() (*Catalog, error) {
	return Parse(bundled)
}

// MustDefault is Default for package-level wiring and tests.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog from a YAML file. An empty path loads the bundled one.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML. Exercise ids must be unique and
// every equipment requirement must resolve to a canonical tag.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return New(f.Exercises)
}

// New builds a catalog from exercises, keeping their order.
func New(exercises []models.Exercise) (*Catalog, error) {
	c := &Catalog{
		exercises: make([]models.Exercise, 0, len(exercises)),
		required:  make(map[string][]equipment.Tag, len(exercises)),
		byID:      make(map[string]int, len(exercises)),
	}
	for i, ex := range exercises {
		if ex.ID == "" {
			return nil, fmt.Errorf("exercise %d: missing id", i)
		}
		if _, dup := c.byID[ex.ID]; dup {
			return nil, fmt.Errorf("exercise %q: duplicate id", ex.ID)
		}
		tags, unknown := equipment.ParseTags(ex.Equipment)
		if len(unknown) > 0 {
			return nil, fmt.Errorf("exercise %q: unknown equipment %v", ex.ID, unknown)
		}
		if len(tags) == 0 {
			tags = []equipment.Tag{equipment.Bodyweight}
		}
		c.byID[ex.ID] = len(c.exercises)
		c.required[ex.ID] = tags
		c.exercises = append(c.exercises, ex)
	}
	return c, nil
}

// Exercises returns the catalog in file order. Callers must not modify it.
func (c *Catalog) Exercises() []models.Exercise {
	return c.exercises
}

// Len returns the number of exercises.
func (c *Catalog) Len() int {
	return len(c.exercises)
}

// Get looks up an exercise by id.
func (c *Catalog) Get(id string) (models.Exercise, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Exercise{}, false
	}
	return c.exercises[i], true
}

// Required returns the parsed equipment requirement of an exercise.
func (c *Catalog) Required(id string) []equipment.Tag {
	return c.required[id]
}
