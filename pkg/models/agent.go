package models

// AgentKind identifies which specialist agent executes a task.
// The planner assigns exactly one kind per task at plan time; the kind is
// never re-dispatched once the graph is built.
type AgentKind string

const (
	// AgentMath handles arithmetic and numeric reasoning tasks.
	AgentMath AgentKind = "math"
	// AgentString handles text analysis tasks like word and letter counts.
	AgentString AgentKind = "string"
	// AgentWebSearch searches the web and returns findings.
	AgentWebSearch AgentKind = "web_search"
	// AgentCode answers programming questions.
	AgentCode AgentKind = "code"
	// AgentWeather looks up current weather conditions for a location.
	AgentWeather AgentKind = "weather"
	// AgentWriter drafts prose from a topic and research context.
	AgentWriter AgentKind = "writer"
	// AgentEditor reviews and improves drafted prose.
	AgentEditor AgentKind = "editor"
)

// Valid returns true if the kind is a known value.
func (k AgentKind) Valid() bool {
	switch k {
	case AgentMath, AgentString, AgentWebSearch, AgentCode,
		AgentWeather, AgentWriter, AgentEditor:
		return true
	default:
		return false
	}
}

// AllAgentKinds returns every known agent kind, in a stable order.
func AllAgentKinds() []AgentKind {
	return []AgentKind{
		AgentMath, AgentString, AgentWebSearch, AgentCode,
		AgentWeather, AgentWriter, AgentEditor,
	}
}
