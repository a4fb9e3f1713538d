package reduce

import (
	"context"
	"fmt"

	"github.com/aweller/maestro/internal/api"
)

// ClaudeSummarizer is the abstractive Summarizer backend. It asks the model
// for a summary that fits the budget and is therefore not deterministic;
// the Reducer still clamps the result, so the size bound holds regardless of
// what the model returns.
type ClaudeSummarizer struct {
	completer api.Completer
}

// NewClaudeSummarizer creates an abstractive summarizer on top of the given
// completion backend.
func NewClaudeSummarizer(completer api.Completer) *ClaudeSummarizer {
	return &ClaudeSummarizer{completer: completer}
}

// Summarize asks the model to compress text to under budget bytes.
func (s *ClaudeSummarizer) Summarize(ctx context.Context, text string, budget int) (string, error) {
	// Roughly 4 bytes per token for English text; leave headroom so the
	// model's answer lands under the byte budget.
	maxTokens := int64(budget / 4)
	if maxTokens < 64 {
		maxTokens = 64
	}

	out, err := s.completer.Complete(ctx, api.CompletionRequest{
		System: "You summarize intermediate results passed between pipeline steps. " +
			"Preserve concrete facts, numbers, and names. Output only the summary.",
		Prompt:      fmt.Sprintf("Summarize the following in under %d characters:\n\n%s", budget, text),
		MaxTokens:   maxTokens,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return out, nil
}
