// Package graph builds and validates the task dependency graph for a run.
package graph

import (
	"fmt"

	"github.com/aweller/maestro/pkg/models"
)

// ExecutionGraph is a read-only directed acyclic graph derived from a planned
// task list. Tasks are nodes; edges point from a task to the tasks it depends
// on. Build validates the plan before returning a graph, so a constructed
// graph is always acyclic with fully resolved references.
type ExecutionGraph struct {
	// order preserves the planner-declared task order.
	order []string
	// nodes maps task ID to the task spec.
	nodes map[string]*models.TaskSpec
	// deps maps task ID to the IDs it depends on.
	deps map[string][]string
	// dependents maps task ID to the IDs that depend on it.
	dependents map[string][]string
}

// Build constructs an ExecutionGraph from a planned task list.
// It is a pure function of its input: no side effects, and the returned
// graph never changes afterward.
//
// Build fails with *DuplicateTaskIDError if two tasks share an ID, with
// *UnknownDependencyError if a dependency references an ID outside the plan,
// and with *CycleError if the dependency relation contains a cycle.
func Build(tasks []*models.TaskSpec) (*ExecutionGraph, error) {
	g := &ExecutionGraph{
		nodes:      make(map[string]*models.TaskSpec, len(tasks)),
		deps:       make(map[string][]string, len(tasks)),
		dependents: make(map[string][]string, len(tasks)),
	}

	// First pass: register all tasks as nodes.
	for _, task := range tasks {
		if task.ID == "" {
			return nil, fmt.Errorf("task with empty id (instruction %q)", task.Instruction)
		}
		if _, exists := g.nodes[task.ID]; exists {
			return nil, &DuplicateTaskIDError{TaskID: task.ID}
		}
		g.nodes[task.ID] = task
		g.order = append(g.order, task.ID)
	}

	// Second pass: build edges from DependsOn fields.
	for _, task := range tasks {
		for _, depID := range task.DependsOn {
			if _, exists := g.nodes[depID]; !exists {
				return nil, &UnknownDependencyError{TaskID: task.ID, DependsOn: depID}
			}
			g.deps[task.ID] = append(g.deps[task.ID], depID)
			g.dependents[depID] = append(g.dependents[depID], task.ID)
		}
	}

	if cycle := g.findCycle(); cycle != nil {
		return nil, &CycleError{Cycle: cycle}
	}

	return g, nil
}

// findCycle returns one dependency cycle as a list of task IDs (first ID
// repeated at the end), or nil if the graph is acyclic.
// Uses depth-first search with coloring to detect back edges; nodes are
// visited in declared order so the reported cycle is deterministic.
func (g *ExecutionGraph) findCycle() []string {
	// Color states: 0 = white (unvisited), 1 = gray (in progress), 2 = black (done).
	colors := make(map[string]int, len(g.nodes))

	var stack []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		colors[id] = 1 // Mark as in progress.
		stack = append(stack, id)

		for _, depID := range g.deps[id] {
			switch colors[depID] {
			case 1:
				// Found a back edge; slice the offending loop out of the stack.
				start := 0
				for i, sid := range stack {
					if sid == depID {
						start = i
						break
					}
				}
				cycle = append(cycle, stack[start:]...)
				cycle = append(cycle, depID)
				return true
			case 0:
				if visit(depID) {
					return true
				}
			}
			// color == 2 means already processed, skip.
		}

		colors[id] = 2 // Mark as done.
		stack = stack[:len(stack)-1]
		return false
	}

	for _, id := range g.order {
		if colors[id] == 0 {
			if visit(id) {
				return cycle
			}
		}
	}

	return nil
}

// Tasks returns all task specs in planner-declared order.
func (g *ExecutionGraph) Tasks() []*models.TaskSpec {
	tasks := make([]*models.TaskSpec, 0, len(g.order))
	for _, id := range g.order {
		tasks = append(tasks, g.nodes[id])
	}
	return tasks
}

// Task returns the spec for a given ID, or nil if not found.
func (g *ExecutionGraph) Task(taskID string) *models.TaskSpec {
	return g.nodes[taskID]
}

// Size returns the number of tasks in the graph.
func (g *ExecutionGraph) Size() int {
	return len(g.nodes)
}

// Roots returns the tasks with no dependencies, in declared order.
// These form the first dispatch wave.
func (g *ExecutionGraph) Roots() []*models.TaskSpec {
	var roots []*models.TaskSpec
	for _, id := range g.order {
		if len(g.deps[id]) == 0 {
			roots = append(roots, g.nodes[id])
		}
	}
	return roots
}

// DependenciesOf returns the IDs the given task depends on.
// The returned slice is a copy; callers may not mutate graph state.
func (g *ExecutionGraph) DependenciesOf(taskID string) []string {
	deps := g.deps[taskID]
	if len(deps) == 0 {
		return nil
	}
	out := make([]string, len(deps))
	copy(out, deps)
	return out
}

// DependentsOf returns the IDs of tasks that depend on the given task.
func (g *ExecutionGraph) DependentsOf(taskID string) []string {
	deps := g.dependents[taskID]
	if len(deps) == 0 {
		return nil
	}
	out := make([]string, len(deps))
	copy(out, deps)
	return out
}

// InDegrees returns a fresh map of task ID to its number of dependencies.
// The scheduler uses this as its mutable ready-set bookkeeping without
// touching the graph itself.
func (g *ExecutionGraph) InDegrees() map[string]int {
	degrees := make(map[string]int, len(g.nodes))
	for _, id := range g.order {
		degrees[id] = len(g.deps[id])
	}
	return degrees
}
