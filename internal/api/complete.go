package api

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

// CompletionRequest describes a single-turn text completion.
// Maestro's collaborators are all one-shot: one system prompt, an optional
// few-shot exchange, one user message, one text answer.
type CompletionRequest struct {
	// System is the system prompt. Optional.
	System string
	// FewShot is an optional list of alternating user/assistant example
	// messages, prepended before the real prompt.
	FewShot []FewShotExchange
	// Prompt is the user message.
	Prompt string
	// Model overrides the client's default model. Optional.
	Model anthropic.Model
	// MaxTokens caps the response size. Defaults to 1024.
	MaxTokens int64
	// Temperature sets sampling temperature. Negative means SDK default.
	Temperature float64
}

// FewShotExchange is one user/assistant example pair.
type FewShotExchange struct {
	User      string
	Assistant string
}

// Completer is the capability the LLM-backed collaborators depend on.
// *Client implements it; tests substitute a canned fake.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Complete performs a single-turn completion and returns the concatenated
// text blocks of the response.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := c.model
	if req.Model != "" {
		model = c.TranslateModel(req.Model)
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	messages := make([]anthropic.MessageParam, 0, 2*len(req.FewShot)+1)
	for _, ex := range req.FewShot {
		messages = append(messages,
			anthropic.NewUserMessage(anthropic.NewTextBlock(ex.User)),
			anthropic.NewAssistantMessage(anthropic.NewTextBlock(ex.Assistant)),
		)
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)))

	params := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  messages,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature >= 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	resp, err := c.inner.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api: %w", err)
	}

	c.tracker.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var text string
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text += variant.Text
		}
	}
	return text, nil
}
