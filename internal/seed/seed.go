package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/tosifAN/sunrise-2024/internal/models"
)

//go:embed tasks.yaml
var defaultTasks []byte

//go:embed tasks.schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Default returns the built-in seed list.
func Default() []models.Task {
	tasks, err := Parse(defaultTasks)
	if err != nil {
		panic(fmt.Sprintf("embedded seed list is invalid: %v", err))
	}
	return tasks
}

// Load reads a seed list from path. An empty path selects the built-in list.
func Load(path string) ([]models.Task, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	tasks, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return tasks, nil
}

// Parse decodes a YAML seed list and validates it against the seed schema.
// Ids must be unique.
func Parse(data []byte) ([]models.Task, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := validate(raw); err != nil {
		return nil, err
	}

	var tasks []models.Task
	if err := yaml.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	seen := make(map[int]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate task id %d", t.ID)
		}
		seen[t.ID] = true
	}
	return tasks, nil
}

// Clone returns a deep copy of tasks so callers can mutate it freely.
func Clone(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	return out
}

func validate(raw any) error {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("tasks.schema.json", schemaJSON)
	})
	if schemaErr != nil {
		return fmt.Errorf("compile schema: %w", schemaErr)
	}

	// Round-trip through JSON so the validator sees JSON types.
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal seed: %w", err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("unmarshal seed: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Errorf("invalid seed list: %s", firstCause(ve))
		}
		return fmt.Errorf("invalid seed list: %w", err)
	}
	return nil
}

// firstCause walks to the deepest validation error, which names the field.
func firstCause(ve *jsonschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return fmt.Sprintf("%s: %s", ve.InstanceLocation, ve.Message)
}
