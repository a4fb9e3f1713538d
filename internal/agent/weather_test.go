package agent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aweller/maestro/pkg/models"
)

func weatherTask(instruction string) *models.TaskSpec {
	return &models.TaskSpec{ID: "wx1", Agent: models.AgentWeather, Instruction: instruction}
}

func TestExtractLocation(t *testing.T) {
	tests := []struct {
		instruction string
		want        string
	}{
		{"What's the weather in Paris?", "Paris"},
		{"current weather for New York, please", "New York"},
		{"weather at San Francisco", "San Francisco"},
		{"weather Berlin", "Berlin"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.instruction, func(t *testing.T) {
			if got := extractLocation(tt.instruction); got != tt.want {
				t.Errorf("extractLocation(%q) = %q, want %q", tt.instruction, got, tt.want)
			}
		})
	}
}

func TestWeatherRunner_ReportsCurrentConditions(t *testing.T) {
	geocode := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("name"); got != "Paris" {
			t.Errorf("geocode name = %q, want %q", got, "Paris")
		}
		w.Write([]byte(`{"results": [{"name": "Paris", "country": "France", "latitude": 48.85, "longitude": 2.35}]}`))
	}))
	defer geocode.Close()

	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current_weather": {"temperature": 21.5, "windspeed": 12.0, "weathercode": 2}}`))
	}))
	defer forecast.Close()

	r := NewWeatherRunner(geocode.Client(), geocode.URL, forecast.URL)
	out, err := r.Invoke(context.Background(), weatherTask("What's the weather in Paris?"), nil)
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}

	for _, want := range []string{"Paris", "France", "21.5", "partly cloudy"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestWeatherRunner_UnknownLocation(t *testing.T) {
	geocode := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	}))
	defer geocode.Close()

	r := NewWeatherRunner(geocode.Client(), geocode.URL, "http://unused.invalid")
	if _, err := r.Invoke(context.Background(), weatherTask("weather in Nowheresville"), nil); err == nil {
		t.Error("expected error for unknown location")
	}
}

func TestDescribeWeatherCode(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "clear sky"},
		{2, "partly cloudy"},
		{45, "fog"},
		{61, "rain"},
		{95, "thunderstorm"},
	}
	for _, tt := range tests {
		if got := describeWeatherCode(tt.code); got != tt.want {
			t.Errorf("describeWeatherCode(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
