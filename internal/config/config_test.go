package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aweller/maestro/pkg/models"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Defaults.MaxParallel != 4 {
		t.Errorf("expected default max_parallel 4, got %d", cfg.Defaults.MaxParallel)
	}

	if cfg.Defaults.ContextBudget != 2048 {
		t.Errorf("expected default context_budget 2048, got %d", cfg.Defaults.ContextBudget)
	}

	if cfg.Timeouts.Task != 2*time.Minute {
		t.Errorf("expected task timeout 2m, got %v", cfg.Timeouts.Task)
	}

	if cfg.Timeouts.Run != 10*time.Minute {
		t.Errorf("expected run timeout 10m, got %v", cfg.Timeouts.Run)
	}

	if cfg.Bedrock.Enabled {
		t.Error("expected bedrock to be disabled by default")
	}
}

func TestLoadFromPath(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
anthropic:
  api_key: test-key
  model: claude-sonnet-4-20250514
bedrock:
  enabled: true
  region: eu-west-1
  profile: staging
defaults:
  max_parallel: 8
  context_budget: 4096
  abstractive_reduce: true
timeouts:
  task: 5m
  run: 30m
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("expected api_key 'test-key', got %q", cfg.Anthropic.APIKey)
	}

	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("expected configured model, got %q", cfg.Anthropic.Model)
	}

	if !cfg.Bedrock.Enabled {
		t.Error("expected bedrock.enabled to be true")
	}

	if cfg.Bedrock.Region != "eu-west-1" {
		t.Errorf("expected region 'eu-west-1', got %q", cfg.Bedrock.Region)
	}

	if cfg.Defaults.MaxParallel != 8 {
		t.Errorf("expected max_parallel 8, got %d", cfg.Defaults.MaxParallel)
	}

	if cfg.Defaults.ContextBudget != 4096 {
		t.Errorf("expected context_budget 4096, got %d", cfg.Defaults.ContextBudget)
	}

	if !cfg.Defaults.AbstractiveReduce {
		t.Error("expected abstractive_reduce to be true")
	}

	if cfg.Timeouts.Task != 5*time.Minute {
		t.Errorf("expected task timeout 5m, got %v", cfg.Timeouts.Task)
	}

	if cfg.Timeouts.Run != 30*time.Minute {
		t.Errorf("expected run timeout 30m, got %v", cfg.Timeouts.Run)
	}
}

func TestLoadFromPathDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// A config that only sets the API key keeps the built-in defaults.
	if err := os.WriteFile(configPath, []byte("anthropic:\n  api_key: k\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Defaults.MaxParallel != 4 {
		t.Errorf("expected default max_parallel 4, got %d", cfg.Defaults.MaxParallel)
	}

	if cfg.Timeouts.Task != 2*time.Minute {
		t.Errorf("expected default task timeout 2m, got %v", cfg.Timeouts.Task)
	}
}

func TestExpandEnvInAPIKey(t *testing.T) {
	os.Setenv("MAESTRO_TEST_KEY", "expanded-value")
	defer os.Unsetenv("MAESTRO_TEST_KEY")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("anthropic:\n  api_key: ${MAESTRO_TEST_KEY}\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "expanded-value" {
		t.Errorf("expected expanded api_key, got %q", cfg.Anthropic.APIKey)
	}
}

func TestLoadProfilesDefaults(t *testing.T) {
	// A path that does not exist yields the built-in profiles.
	profiles, err := LoadProfiles(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadProfiles failed: %v", err)
	}

	for _, kind := range []models.AgentKind{models.AgentCode, models.AgentWriter, models.AgentEditor} {
		profile, ok := profiles[kind]
		if !ok {
			t.Errorf("missing profile for %s", kind)
			continue
		}
		if profile.System == "" {
			t.Errorf("%s profile has no system prompt", kind)
		}
		if profile.MaxTokens <= 0 {
			t.Errorf("%s profile has no token cap", kind)
		}
	}
}

func TestLoadProfilesOverride(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "agents.yaml")

	content := `
writer:
  system: "You write haiku."
  max_tokens: 4096
editor:
  temperature: 0.9
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write profiles file: %v", err)
	}

	profiles, err := LoadProfiles(path)
	if err != nil {
		t.Fatalf("LoadProfiles failed: %v", err)
	}

	writer := profiles[models.AgentWriter]
	if writer.System != "You write haiku." {
		t.Errorf("writer system not overridden: %q", writer.System)
	}
	if writer.MaxTokens != 4096 {
		t.Errorf("writer max_tokens = %d, want 4096", writer.MaxTokens)
	}
	if writer.Temperature == 0 {
		t.Error("writer temperature should keep its default")
	}

	editor := profiles[models.AgentEditor]
	if editor.Temperature != 0.9 {
		t.Errorf("editor temperature = %v, want 0.9", editor.Temperature)
	}
	if editor.System == "" {
		t.Error("editor system should keep its default")
	}

	// Untouched kinds keep their defaults entirely.
	if profiles[models.AgentCode].System == "" {
		t.Error("code profile lost its default system prompt")
	}
}

func TestLoadProfilesUnknownKind(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "agents.yaml")

	if err := os.WriteFile(path, []byte("sorcerer:\n  system: hm\n"), 0644); err != nil {
		t.Fatalf("failed to write profiles file: %v", err)
	}

	if _, err := LoadProfiles(path); err == nil {
		t.Fatal("expected error for unknown agent kind")
	}
}
