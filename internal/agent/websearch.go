package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aweller/maestro/internal/reduce"
	"github.com/aweller/maestro/pkg/models"
)

// defaultSearchURL is the DuckDuckGo instant answer endpoint.
const defaultSearchURL = "https://api.duckduckgo.com/"

// maxSearchResults bounds how many related topics are included.
const maxSearchResults = 5

// WebSearchRunner searches the web via the DuckDuckGo instant answer API and
// returns the abstract plus top related topics as text.
type WebSearchRunner struct {
	client  *http.Client
	baseURL string
}

// NewWebSearchRunner creates a web search runner. A nil client selects a
// default with a 30s timeout; an empty baseURL selects the public endpoint.
func NewWebSearchRunner(client *http.Client, baseURL string) *WebSearchRunner {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if baseURL == "" {
		baseURL = defaultSearchURL
	}
	return &WebSearchRunner{client: client, baseURL: baseURL}
}

// duckResponse is the subset of the instant answer payload we consume.
type duckResponse struct {
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	Answer        string `json:"Answer"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// Invoke searches for the task instruction and formats the findings.
func (r *WebSearchRunner) Invoke(ctx context.Context, task *models.TaskSpec, _ *reduce.Bundle) (string, error) {
	query := strings.TrimSpace(task.Instruction)
	if query == "" {
		return "", fmt.Errorf("empty search query in task %q", task.ID)
	}

	endpoint := fmt.Sprintf("%s?q=%s&format=json&no_html=1&skip_disambig=1",
		r.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build search request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search %q: unexpected status %s", query, resp.Status)
	}

	var payload duckResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode search response: %w", err)
	}

	var sb strings.Builder
	if payload.Answer != "" {
		fmt.Fprintf(&sb, "Answer: %s\n", payload.Answer)
	}
	if payload.AbstractText != "" {
		fmt.Fprintf(&sb, "%s\n", payload.AbstractText)
		if payload.AbstractURL != "" {
			fmt.Fprintf(&sb, "Source: %s\n", payload.AbstractURL)
		}
	}

	count := 0
	for _, topic := range payload.RelatedTopics {
		if topic.Text == "" {
			continue
		}
		fmt.Fprintf(&sb, "- %s\n", topic.Text)
		count++
		if count >= maxSearchResults {
			break
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("no results for %q", query)
	}
	return out, nil
}
