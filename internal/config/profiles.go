package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aweller/maestro/internal/agent"
	"github.com/aweller/maestro/pkg/models"
)

// profilesFileName is the agent profile override file looked up in the user
// config directory.
const profilesFileName = "agents.yaml"

// LoadProfiles returns the agent profiles for the LLM-backed kinds: the
// built-in defaults, overlaid with any overrides from the given YAML file.
// An empty path selects agents.yaml in the user config directory; a missing
// file yields the defaults.
//
// The file maps agent kind to profile:
//
//	writer:
//	  system: "You write like a pirate."
//	  max_tokens: 4096
func LoadProfiles(path string) (map[models.AgentKind]agent.Profile, error) {
	profiles := agent.DefaultProfiles()

	if path == "" {
		path = filepath.Join(getUserConfigDir(), profilesFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return profiles, nil
		}
		return nil, fmt.Errorf("reading agent profiles from %s: %w", path, err)
	}

	overrides := map[string]agent.Profile{}
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parsing agent profiles from %s: %w", path, err)
	}

	for name, profile := range overrides {
		kind := models.AgentKind(name)
		if !kind.Valid() {
			return nil, fmt.Errorf("agent profiles: unknown agent kind %q in %s", name, path)
		}
		merged := profiles[kind]
		if profile.System != "" {
			merged.System = profile.System
		}
		if profile.Model != "" {
			merged.Model = profile.Model
		}
		if profile.MaxTokens > 0 {
			merged.MaxTokens = profile.MaxTokens
		}
		if profile.Temperature != 0 {
			merged.Temperature = profile.Temperature
		}
		profiles[kind] = merged
	}

	return profiles, nil
}
