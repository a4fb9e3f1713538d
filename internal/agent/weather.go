package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/aweller/maestro/internal/reduce"
	"github.com/aweller/maestro/pkg/models"
)

const (
	defaultGeocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"
	defaultForecastURL = "https://api.open-meteo.com/v1/forecast"
)

// WeatherRunner looks up current conditions via the Open-Meteo public API:
// one geocoding call to resolve the location, one forecast call for the
// current weather.
type WeatherRunner struct {
	client      *http.Client
	geocodeURL  string
	forecastURL string
}

// NewWeatherRunner creates a weather runner. Empty URLs select the public
// Open-Meteo endpoints; a nil client selects a default with a 30s timeout.
func NewWeatherRunner(client *http.Client, geocodeURL, forecastURL string) *WeatherRunner {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if geocodeURL == "" {
		geocodeURL = defaultGeocodeURL
	}
	if forecastURL == "" {
		forecastURL = defaultForecastURL
	}
	return &WeatherRunner{client: client, geocodeURL: geocodeURL, forecastURL: forecastURL}
}

// locationPattern pulls "in <place>" / "for <place>" out of an instruction.
var locationPattern = regexp.MustCompile(`(?i)\b(?:in|for|at)\s+([A-Za-zÀ-ÿ' .-]+?)(?:\?|$|,)`)

type geocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

type forecastResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// Invoke resolves the location named in the instruction and reports current
// conditions.
func (r *WeatherRunner) Invoke(ctx context.Context, task *models.TaskSpec, _ *reduce.Bundle) (string, error) {
	location := extractLocation(task.Instruction)
	if location == "" {
		return "", fmt.Errorf("no location in task %q instruction %q", task.ID, task.Instruction)
	}

	name, country, lat, lon, err := r.geocode(ctx, location)
	if err != nil {
		return "", err
	}

	temp, wind, code, err := r.currentWeather(ctx, lat, lon)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Current weather in %s, %s: %s, %.1f°C, wind %.1f km/h",
		name, country, describeWeatherCode(code), temp, wind), nil
}

// extractLocation finds the place name in an instruction, falling back to
// the whole instruction for terse queries like "weather Paris".
func extractLocation(instruction string) string {
	if m := locationPattern.FindStringSubmatch(instruction); m != nil {
		return strings.TrimSpace(m[1])
	}
	fields := strings.Fields(instruction)
	if len(fields) == 0 {
		return ""
	}
	// Drop leading "weather"/"forecast" style words.
	var rest []string
	for _, f := range fields {
		switch strings.ToLower(strings.Trim(f, "?.,")) {
		case "weather", "forecast", "current", "the", "whats", "what's", "is":
			continue
		}
		rest = append(rest, strings.Trim(f, "?.,"))
	}
	return strings.Join(rest, " ")
}

func (r *WeatherRunner) geocode(ctx context.Context, location string) (name, country string, lat, lon float64, err error) {
	endpoint := fmt.Sprintf("%s?name=%s&count=1", r.geocodeURL, url.QueryEscape(location))

	var payload geocodeResponse
	if err = r.getJSON(ctx, endpoint, &payload); err != nil {
		return "", "", 0, 0, fmt.Errorf("geocode %q: %w", location, err)
	}
	if len(payload.Results) == 0 {
		return "", "", 0, 0, fmt.Errorf("unknown location %q", location)
	}

	res := payload.Results[0]
	return res.Name, res.Country, res.Latitude, res.Longitude, nil
}

func (r *WeatherRunner) currentWeather(ctx context.Context, lat, lon float64) (temp, wind float64, code int, err error) {
	endpoint := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f&current_weather=true", r.forecastURL, lat, lon)

	var payload forecastResponse
	if err = r.getJSON(ctx, endpoint, &payload); err != nil {
		return 0, 0, 0, fmt.Errorf("forecast: %w", err)
	}
	cw := payload.CurrentWeather
	return cw.Temperature, cw.WindSpeed, cw.WeatherCode, nil
}

func (r *WeatherRunner) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// describeWeatherCode maps WMO weather codes to short descriptions.
func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "clear sky"
	case code <= 3:
		return "partly cloudy"
	case code <= 48:
		return "fog"
	case code <= 57:
		return "drizzle"
	case code <= 67:
		return "rain"
	case code <= 77:
		return "snow"
	case code <= 82:
		return "rain showers"
	case code <= 86:
		return "snow showers"
	default:
		return "thunderstorm"
	}
}
