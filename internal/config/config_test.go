package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.OpenAI.APIKey != "${OPENAI_API_KEY}" {
		t.Error("expected openai API key placeholder")
	}
	if cfg.OpenAI.BatchCompletionTokens != 6000 {
		t.Errorf("expected 6000 batch completion tokens, got %d", cfg.OpenAI.BatchCompletionTokens)
	}
	if cfg.Describe.MaxConcurrent != 5 {
		t.Errorf("expected describe concurrency 5, got %d", cfg.Describe.MaxConcurrent)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		os.Setenv("TEST_API_KEY", "secret123")
		defer os.Unsetenv("TEST_API_KEY")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestConfig_ResolvedAPIKey(t *testing.T) {
	os.Setenv("TEST_OPENAI_KEY", "sk-test-123")
	defer os.Unsetenv("TEST_OPENAI_KEY")

	cfg := &Config{OpenAI: OpenAICfg{APIKey: "${TEST_OPENAI_KEY}"}}
	if got := cfg.ResolvedAPIKey(); got != "sk-test-123" {
		t.Errorf("expected sk-test-123, got %s", got)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")

		configContent := `
openai:
  batch_model: "gpt-4.1"
team:
  email: "team@example.com"
`
		if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.OpenAI.BatchModel != "gpt-4.1" {
			t.Errorf("expected gpt-4.1, got %s", cfg.OpenAI.BatchModel)
		}
		if cfg.Team.Email != "team@example.com" {
			t.Errorf("expected team@example.com, got %s", cfg.Team.Email)
		}
	})
}

func TestWriteDefault(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("failed to write default config: %v", err)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("failed to load written config: %v", err)
	}
	cfg := mgr.Get()
	if cfg.OpenAI.BatchModel != DefaultConfig().OpenAI.BatchModel {
		t.Errorf("written config does not round-trip: got %s", cfg.OpenAI.BatchModel)
	}
}

func TestManager_WatchConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
openai:
  batch_model: "initial-model"
`
	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	if cfg := mgr.Get(); cfg.OpenAI.BatchModel != "initial-model" {
		t.Errorf("initial value mismatch: got %s", cfg.OpenAI.BatchModel)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Value

	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.OpenAI.BatchModel)
	})

	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	newContent := `
openai:
  batch_model: "updated-model"
`
	if err := os.WriteFile(configFile, []byte(newContent), 0644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	// Wait for the watcher to detect the change (fsnotify is async)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if callbackCount.Load() > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Error("callback was not invoked after config file change")
	}

	if cfg := mgr.Get(); cfg.OpenAI.BatchModel != "updated-model" {
		t.Errorf("config not updated: got %s", cfg.OpenAI.BatchModel)
	}
	if v := lastValue.Load(); v != "updated-model" {
		t.Errorf("callback received wrong value: got %v", v)
	}
}
