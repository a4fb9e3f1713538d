package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aweller/maestro/pkg/models"
)

// plannedStep is the JSON structure the model returns for a single task.
type plannedStep struct {
	ID        string   `json:"id"`
	Agent     string   `json:"agent"`
	Task      string   `json:"task"`
	DependsOn []string `json:"depends_on"`
	Reasoning string   `json:"reasoning"`
}

// ParsePlan parses the model's response into task specs. Models sometimes
// wrap the array in markdown fences or prose despite instructions, so the
// parser extracts the outermost JSON array before unmarshalling.
func ParsePlan(response string) ([]*models.TaskSpec, error) {
	jsonStart := strings.Index(response, "[")
	jsonEnd := strings.LastIndex(response, "]")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		preview := response
		if len(preview) > 500 {
			preview = preview[:500] + "... (truncated)"
		}
		return nil, fmt.Errorf("no JSON array found in response (got %d chars): %q", len(response), preview)
	}
	jsonStr := response[jsonStart : jsonEnd+1]

	var steps []plannedStep
	if err := json.Unmarshal([]byte(jsonStr), &steps); err != nil {
		return nil, fmt.Errorf("unmarshal plan: %w", err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("empty plan returned")
	}

	seen := make(map[string]bool, len(steps))
	tasks := make([]*models.TaskSpec, len(steps))

	for i, step := range steps {
		id := strings.TrimSpace(step.ID)
		if id == "" {
			// Tolerate missing ids by position, as long as nothing refers to them.
			id = fmt.Sprintf("step_%d", i+1)
		}
		if seen[id] {
			return nil, fmt.Errorf("plan reuses id %q", id)
		}
		seen[id] = true

		kind := models.AgentKind(strings.ToLower(strings.TrimSpace(step.Agent)))
		if !kind.Valid() {
			return nil, fmt.Errorf("plan step %q names unknown agent %q", id, step.Agent)
		}
		if strings.TrimSpace(step.Task) == "" {
			return nil, fmt.Errorf("plan step %q has no task text", id)
		}

		tasks[i] = &models.TaskSpec{
			ID:          id,
			Agent:       kind,
			Instruction: strings.TrimSpace(step.Task),
			DependsOn:   step.DependsOn,
		}
	}

	// Dependency references are checked here for a friendlier error; the
	// graph builder re-validates along with cycle detection.
	for _, task := range tasks {
		for _, dep := range task.DependsOn {
			if !seen[dep] {
				return nil, fmt.Errorf("plan step %q depends on unknown step %q", task.ID, dep)
			}
		}
	}

	return tasks, nil
}
