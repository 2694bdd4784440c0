// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

const Version = "1.0.0"

// New builds a registry from activities, sorted by category then ID.
func New(activities ...Activity) *ActivityRegistry {
	sorted := append([]Activity(nil), activities...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Category != sorted[j].Category {
			return sorted[i].Category < sorted[j].Category
		}
		return sorted[i].ID < sorted[j].ID
	})
	return &ActivityRegistry{
		Version:     Version,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Activities:  sorted,
	}
}

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode registry %s: %w", path, err)
	}
	return &reg, nil
}

func (r *ActivityRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Find returns the activity registered for taskType.
func (r *ActivityRegistry) Find(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}

// Validate checks IDs and task types are unique and every schema compiles.
func (r *ActivityRegistry) Validate() error {
	ids := make(map[string]bool, len(r.Activities))
	taskTypes := make(map[string]bool, len(r.Activities))

	for _, a := range r.Activities {
		if a.ID == "" || a.TaskType == "" {
			return fmt.Errorf("activity %q: id and taskType are required", a.ID)
		}
		if ids[a.ID] {
			return fmt.Errorf("duplicate activity id %q", a.ID)
		}
		if taskTypes[a.TaskType] {
			return fmt.Errorf("duplicate task type %q", a.TaskType)
		}
		ids[a.ID] = true
		taskTypes[a.TaskType] = true

		if _, err := time.ParseDuration(a.Timeout); err != nil {
			return fmt.Errorf("activity %q: invalid timeout %q", a.ID, a.Timeout)
		}
		for name, schema := range map[string]map[string]interface{}{"input": a.InputSchema, "output": a.OutputSchema} {
			if schema == nil {
				continue
			}
			if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema)); err != nil {
				return fmt.Errorf("activity %q: %s schema: %w", a.ID, name, err)
			}
		}
	}
	return nil
}

// Diff lists task types whose registered definition differs from want.
// Missing and extra activities are reported too.
func (r *ActivityRegistry) Diff(want *ActivityRegistry) []string {
	var diffs []string
	for _, w := range want.Activities {
		got, ok := r.Find(w.TaskType)
		if !ok {
			diffs = append(diffs, fmt.Sprintf("missing %s", w.TaskType))
			continue
		}
		gotJSON, _ := json.Marshal(got)
		wantJSON, _ := json.Marshal(w)
		if string(gotJSON) != string(wantJSON) {
			diffs = append(diffs, fmt.Sprintf("changed %s", w.TaskType))
		}
	}
	for _, g := range r.Activities {
		if _, ok := want.Find(g.TaskType); !ok {
			diffs = append(diffs, fmt.Sprintf("unexpected %s", g.TaskType))
		}
	}
	return diffs
}
