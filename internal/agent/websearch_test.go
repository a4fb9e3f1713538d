package agent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aweller/maestro/pkg/models"
)

func searchTask(query string) *models.TaskSpec {
	return &models.TaskSpec{ID: "w1", Agent: models.AgentWebSearch, Instruction: query}
}

func TestWebSearchRunner_FormatsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "GDP France" {
			t.Errorf("query = %q, want %q", got, "GDP France")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"AbstractText": "France has the seventh largest economy.",
			"AbstractURL": "https://example.org/france",
			"RelatedTopics": [
				{"Text": "Economy of France", "FirstURL": "https://example.org/econ"},
				{"Text": ""},
				{"Text": "GDP by country", "FirstURL": "https://example.org/gdp"}
			]
		}`))
	}))
	defer srv.Close()

	r := NewWebSearchRunner(srv.Client(), srv.URL)
	out, err := r.Invoke(context.Background(), searchTask("GDP France"), nil)
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}

	if !strings.Contains(out, "seventh largest economy") {
		t.Errorf("missing abstract in output: %q", out)
	}
	if !strings.Contains(out, "- Economy of France") {
		t.Errorf("missing related topic in output: %q", out)
	}
	if strings.Contains(out, "- \n") {
		t.Errorf("empty topics should be skipped: %q", out)
	}
}

func TestWebSearchRunner_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewWebSearchRunner(srv.Client(), srv.URL)
	if _, err := r.Invoke(context.Background(), searchTask("anything"), nil); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestWebSearchRunner_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"AbstractText": "", "RelatedTopics": []}`))
	}))
	defer srv.Close()

	r := NewWebSearchRunner(srv.Client(), srv.URL)
	if _, err := r.Invoke(context.Background(), searchTask("obscure query"), nil); err == nil {
		t.Error("expected error when the search returns nothing")
	}
}

func TestWebSearchRunner_EmptyQuery(t *testing.T) {
	r := NewWebSearchRunner(nil, "")
	if _, err := r.Invoke(context.Background(), searchTask("  "), nil); err == nil {
		t.Error("expected error for empty query")
	}
}
