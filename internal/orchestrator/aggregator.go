package orchestrator

import (
	"github.com/aweller/maestro/internal/graph"
	"github.com/aweller/maestro/pkg/models"
)

// Aggregate pairs every task with its result in the order the tasks were
// declared. Execution order is nondeterministic; the report order is not.
func Aggregate(g *graph.ExecutionGraph, results map[string]*models.TaskResult) []models.TaskOutcome {
	outcomes := make([]models.TaskOutcome, 0, g.Size())
	for _, task := range g.Tasks() {
		outcomes = append(outcomes, models.TaskOutcome{
			Spec:   task,
			Result: results[task.ID],
		})
	}
	return outcomes
}
