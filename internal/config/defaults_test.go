package config

import "testing"

func TestDefaultEntries(t *testing.T) {
	entries := DefaultEntries()
	if len(entries) == 0 {
		t.Fatal("DefaultEntries() returned empty slice")
	}

	requiredKeys := []string{
		"anchors.nGram",
		"anchors.minSeparation",
		"align.phonemeSoftThreshold",
		"bookIndex.avgWpm",
		"pipeline.startStage",
		"pipeline.retry.maxAttempts",
	}
	keys := make(map[string]bool)
	for _, e := range entries {
		keys[e.Key] = true
	}
	for _, key := range requiredKeys {
		if !keys[key] {
			t.Errorf("DefaultEntries() missing required key: %s", key)
		}
	}
}

func TestGetDefault(t *testing.T) {
	t.Run("existing_key", func(t *testing.T) {
		entry := GetDefault("anchors.nGram")
		if entry == nil {
			t.Fatal("GetDefault() returned nil for existing key")
		}
		if entry.Value != 3 {
			t.Errorf("GetDefault() Value = %v, want 3", entry.Value)
		}
	})

	t.Run("non_existent_key", func(t *testing.T) {
		if entry := GetDefault("does.not.exist"); entry != nil {
			t.Errorf("GetDefault() = %v, want nil for non-existent key", entry)
		}
	})
}
