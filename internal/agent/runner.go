// Package agent provides the specialist agent runners maestro dispatches
// tasks to, one implementation per agent kind.
package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/aweller/maestro/internal/reduce"
	"github.com/aweller/maestro/pkg/models"
)

// Runner executes one task. The orchestrator is polymorphic over this
// capability and knows nothing about agent internals. Implementations may
// block for arbitrarily long; they must honor ctx cancellation.
type Runner interface {
	Invoke(ctx context.Context, task *models.TaskSpec, bundle *reduce.Bundle) (string, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, task *models.TaskSpec, bundle *reduce.Bundle) (string, error)

// Invoke calls f.
func (f RunnerFunc) Invoke(ctx context.Context, task *models.TaskSpec, bundle *reduce.Bundle) (string, error) {
	return f(ctx, task, bundle)
}

// Registry maps agent kinds to their runners. A registry is built once per
// run and passed into the orchestrator; there is no process-wide instance.
type Registry struct {
	mu      sync.RWMutex
	runners map[models.AgentKind]Runner
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{runners: make(map[models.AgentKind]Runner)}
}

// Register adds a runner for a kind, replacing any existing one.
func (r *Registry) Register(kind models.AgentKind, runner Runner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runners[kind] = runner
}

// Lookup returns the runner for a kind.
func (r *Registry) Lookup(kind models.AgentKind) (Runner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runner, ok := r.runners[kind]
	if !ok {
		return nil, fmt.Errorf("no runner registered for agent kind %q", kind)
	}
	return runner, nil
}

// Kinds returns the registered kinds in the model's stable order.
func (r *Registry) Kinds() []models.AgentKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var kinds []models.AgentKind
	for _, k := range models.AllAgentKinds() {
		if _, ok := r.runners[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
