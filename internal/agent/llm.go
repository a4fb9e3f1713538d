package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/aweller/maestro/internal/api"
	"github.com/aweller/maestro/internal/reduce"
	"github.com/aweller/maestro/pkg/models"
)

// Profile holds the model settings for one LLM-backed agent kind.
type Profile struct {
	// System is the system prompt establishing the agent's role.
	System string `yaml:"system"`
	// Model overrides the client default model. Optional.
	Model string `yaml:"model"`
	// MaxTokens caps the response size.
	MaxTokens int64 `yaml:"max_tokens"`
	// Temperature sets sampling temperature.
	Temperature float64 `yaml:"temperature"`
}

// LLMRunner executes a task by sending the instruction, prefixed with the
// upstream context bundle, to a Claude model. The code, writer, and editor
// kinds are all LLMRunners with different profiles.
type LLMRunner struct {
	completer api.Completer
	profile   Profile
}

// NewLLMRunner creates a runner with the given completion backend and profile.
func NewLLMRunner(completer api.Completer, profile Profile) *LLMRunner {
	if profile.MaxTokens <= 0 {
		profile.MaxTokens = 1024
	}
	return &LLMRunner{completer: completer, profile: profile}
}

// Invoke sends the task to the model and returns the text answer.
func (r *LLMRunner) Invoke(ctx context.Context, task *models.TaskSpec, bundle *reduce.Bundle) (string, error) {
	var sb strings.Builder
	if bundle != nil && bundle.Len() > 0 {
		sb.WriteString(bundle.Render())
		sb.WriteString("\nYour task: ")
	}
	sb.WriteString(task.Instruction)

	out, err := r.completer.Complete(ctx, api.CompletionRequest{
		System:      r.profile.System,
		Prompt:      sb.String(),
		Model:       anthropic.Model(r.profile.Model),
		MaxTokens:   r.profile.MaxTokens,
		Temperature: r.profile.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s agent: %w", task.Agent, err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%s agent returned an empty answer", task.Agent)
	}
	return out, nil
}

// DefaultProfiles returns the built-in profiles for the LLM-backed kinds.
// Config files may override any of these per kind.
func DefaultProfiles() map[models.AgentKind]Profile {
	return map[models.AgentKind]Profile{
		models.AgentCode: {
			System: "You are a programming assistant. Answer coding questions " +
				"concisely with working code where appropriate. Do not execute anything.",
			MaxTokens:   2048,
			Temperature: 0,
		},
		models.AgentWriter: {
			System: "You are a writer. Draft clear, well-structured prose on the " +
				"given topic, grounded in the research context you are given. " +
				"Output only the draft.",
			MaxTokens:   2048,
			Temperature: 0.7,
		},
		models.AgentEditor: {
			System: "You are an editor. Review the draft you are given for " +
				"clarity, flow, and correctness, then output the improved version. " +
				"Output only the edited text.",
			MaxTokens:   2048,
			Temperature: 0.3,
		},
	}
}
