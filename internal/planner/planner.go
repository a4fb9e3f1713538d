// Package planner turns a free-text user request into an ordered task list
// with dependencies, using a Claude model as the planning backend.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/aweller/maestro/internal/api"
	"github.com/aweller/maestro/pkg/models"
)

// ErrPlanningFailed indicates the planner could not produce a usable task
// list. Nothing is dispatched when planning fails.
var ErrPlanningFailed = errors.New("planning failed")

// Planner asks a model to decompose a request into specialist agent tasks.
type Planner struct {
	completer api.Completer
	model     anthropic.Model
}

// New creates a Planner on top of the given completion backend.
// An empty model selects the backend's default.
func New(completer api.Completer, model anthropic.Model) *Planner {
	return &Planner{completer: completer, model: model}
}

// Plan produces an ordered task list for the request. The returned specs are
// ready for graph construction: validated IDs, known agent kinds, and
// dependencies referencing in-plan IDs. Fails with an error wrapping
// ErrPlanningFailed when the model's answer cannot be used.
func (p *Planner) Plan(ctx context.Context, request string) ([]*models.TaskSpec, error) {
	if strings.TrimSpace(request) == "" {
		return nil, fmt.Errorf("%w: empty request", ErrPlanningFailed)
	}

	response, err := p.completer.Complete(ctx, api.CompletionRequest{
		System: planSystemPrompt,
		FewShot: []api.FewShotExchange{
			{
				User:      "Add 2 and 3",
				Assistant: `[{"id": "sum", "agent": "math", "task": "2 + 3", "depends_on": [], "reasoning": "Single arithmetic step."}]`,
			},
		},
		Prompt:      request,
		Model:       p.model,
		MaxTokens:   2048,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlanningFailed, err)
	}

	tasks, err := ParsePlan(response)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlanningFailed, err)
	}
	return tasks, nil
}

const planSystemPrompt = `You are a planning agent. Decompose the user's request into tasks for specialist agents.

Available agents:
- math: arithmetic and numeric reasoning ("2+3", "5 factorial", "add 4 and 7")
- string: text analysis (word counts, letter counts, reversing, case changes)
- web_search: searches the web for facts
- code: answers programming questions
- weather: current weather for a location
- writer: drafts prose from a topic and research context
- editor: reviews and improves drafted prose

CRITICAL: You must respond with ONLY a valid JSON array, nothing else. No markdown, no explanations.
Return a JSON array of tasks in this exact format:
[
  {"id": "short_id", "agent": "math", "task": "what the agent should do", "depends_on": [], "reasoning": "why this step exists"},
  {"id": "another_id", "agent": "math", "task": "combine earlier results", "depends_on": ["short_id"], "reasoning": "uses the previous result"}
]
RULES:
1. Start your response with [ and end with ]
2. No markdown code blocks
3. Every id must be unique; depends_on may only reference ids in this array
4. A task that needs another task's output must list it in depends_on
5. Independent tasks must NOT depend on each other, so they can run in parallel
6. Use the fewest tasks that cover the request`
