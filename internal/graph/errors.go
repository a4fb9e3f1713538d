package graph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycleDetected indicates a circular dependency was found in the task graph.
var ErrCycleDetected = errors.New("circular dependency detected")

// DuplicateTaskIDError indicates two tasks in the same plan share an ID.
type DuplicateTaskIDError struct {
	// TaskID is the ID that appears more than once.
	TaskID string
}

func (e *DuplicateTaskIDError) Error() string {
	return fmt.Sprintf("duplicate task id %q", e.TaskID)
}

// UnknownDependencyError indicates a task depends on an ID that is not in
// the plan.
type UnknownDependencyError struct {
	// TaskID is the task carrying the bad reference.
	TaskID string
	// DependsOn is the referenced ID that does not exist.
	DependsOn string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("task %q depends on unknown task %q", e.TaskID, e.DependsOn)
}

// CycleError reports one offending dependency cycle for diagnostics.
// The cycle slice lists task IDs in dependency order, with the first ID
// repeated at the end.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Cycle, " -> "))
}

// Unwrap allows errors.Is(err, ErrCycleDetected) checks.
func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}
