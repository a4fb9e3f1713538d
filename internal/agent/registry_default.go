package agent

import (
	"net/http"

	"github.com/aweller/maestro/internal/api"
	"github.com/aweller/maestro/pkg/models"
)

// DefaultRegistry wires a runner for every known agent kind: local runners
// for math and string, HTTP-backed runners for web_search and weather, and
// LLM runners for code, writer, and editor.
//
// profiles may be nil, in which case DefaultProfiles is used; entries present
// in profiles override the built-in ones per kind.
func DefaultRegistry(completer api.Completer, httpClient *http.Client, profiles map[models.AgentKind]Profile) *Registry {
	merged := DefaultProfiles()
	for kind, p := range profiles {
		merged[kind] = p
	}

	reg := NewRegistry()
	reg.Register(models.AgentMath, NewMathRunner())
	reg.Register(models.AgentString, NewStringRunner())
	reg.Register(models.AgentWebSearch, NewWebSearchRunner(httpClient, ""))
	reg.Register(models.AgentWeather, NewWeatherRunner(httpClient, "", ""))
	reg.Register(models.AgentCode, NewLLMRunner(completer, merged[models.AgentCode]))
	reg.Register(models.AgentWriter, NewLLMRunner(completer, merged[models.AgentWriter]))
	reg.Register(models.AgentEditor, NewLLMRunner(completer, merged[models.AgentEditor]))
	return reg
}
