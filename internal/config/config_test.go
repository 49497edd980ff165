package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Anchors.NGram != 3 {
		t.Errorf("expected default nGram 3, got %d", cfg.Anchors.NGram)
	}
	if cfg.Pipeline.EndStage != 7 {
		t.Errorf("expected default endStage 7, got %d", cfg.Pipeline.EndStage)
	}
	if cfg.Pipeline.Retry.MaxAttempts != 5 {
		t.Errorf("expected default retry.maxAttempts 5, got %d", cfg.Pipeline.Retry.MaxAttempts)
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

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")

		configContent := `
anchors:
  nGram: 4
  targetPerTokens: 50
  minSeparation: 100
  asrPrefixTokens: 8
align:
  phonemeSoftThreshold: 0.8
  maxRun: 8
  maxAvg: 0.6
bookIndex:
  avgWpm: 200
pipeline:
  startStage: 1
  endStage: 7
  asrConcurrency: 2
  mfaConcurrency: 1
  mfaWorkspacePool: 2
  retry:
    maxAttempts: 5
    baseBackoffMs: 500
`
		if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.Anchors.NGram != 4 {
			t.Errorf("expected nGram 4, got %d", cfg.Anchors.NGram)
		}
	})

	t.Run("rejects endStage before startStage", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")

		configContent := baseValidConfigYAML + "\npipeline:\n  startStage: 5\n  endStage: 2\n  asrConcurrency: 2\n  mfaConcurrency: 1\n  mfaWorkspacePool: 2\n  retry:\n    maxAttempts: 5\n    baseBackoffMs: 500\n"
		if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		if _, err := NewManager(configFile); err == nil {
			t.Error("expected error for endStage < startStage, got nil")
		}
	})
}

const baseValidConfigYAML = `
anchors:
  nGram: 3
  targetPerTokens: 50
  minSeparation: 100
  asrPrefixTokens: 8
align:
  phonemeSoftThreshold: 0.8
  maxRun: 8
  maxAvg: 0.6
bookIndex:
  avgWpm: 200
`

func TestManager_OnChange(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configFile, []byte(baseValidConfigYAML+pipelineYAML(1, 7)), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	callbackCount := 0
	var lastConfig *Config

	mgr.OnChange(func(cfg *Config) {
		callbackCount++
		lastConfig = cfg
	})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 1 {
		t.Errorf("expected 1 callback, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()

	// Actually triggering the callback requires WatchConfig + file change,
	// which is exercised in TestManager_WatchConfig.
	_ = lastConfig
	_ = callbackCount
}

func TestManager_OnChange_Multiple(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configFile, []byte(baseValidConfigYAML+pipelineYAML(1, 7)), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configFile, []byte(baseValidConfigYAML+pipelineYAML(1, 7)), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				cfg := mgr.Get()
				_ = cfg.Anchors.NGram
			}
			done <- struct{}{}
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configFile, []byte(baseValidConfigYAML+pipelineYAML(1, 7)), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	cfg := mgr.Get()
	if cfg.Anchors.NGram != 3 {
		t.Errorf("initial value mismatch: expected nGram 3, got %d", cfg.Anchors.NGram)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Value

	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.Anchors.NGram)
	})

	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher.
	time.Sleep(100 * time.Millisecond)

	updated := `
anchors:
  nGram: 9
  targetPerTokens: 50
  minSeparation: 100
  asrPrefixTokens: 8
align:
  phonemeSoftThreshold: 0.8
  maxRun: 8
  maxAvg: 0.6
bookIndex:
  avgWpm: 200
` + pipelineYAML(1, 7)
	if err := os.WriteFile(configFile, []byte(updated), 0644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

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

	newCfg := mgr.Get()
	if newCfg.Anchors.NGram != 9 {
		t.Errorf("config not updated: expected nGram 9, got %d", newCfg.Anchors.NGram)
	}

	if v := lastValue.Load(); v != 9 {
		t.Errorf("callback received wrong value: expected 9, got %v", v)
	}
}

func pipelineYAML(start, end int) string {
	return fmt.Sprintf("pipeline:\n  startStage: %d\n  endStage: %d\n  asrConcurrency: 2\n  mfaConcurrency: 1\n  mfaWorkspacePool: 2\n  retry:\n    maxAttempts: 5\n    baseBackoffMs: 500\n", start, end)
}
