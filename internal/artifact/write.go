package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/encryptabit/ams/internal/amserr"
)

// WriteJSONAtomic marshals v as pretty-printed JSON and publishes it via a
// sibling *.tmp file + atomic rename, per spec §6's publication protocol.
func WriteJSONAtomic(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("artifact: mkdir %s: %w", filepath.Dir(path), err)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("artifact: marshal %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("artifact: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("artifact: rename %s -> %s: %w", tmp, path, err)
	}
	return nil
}

// ReadJSON reads and unmarshals a JSON document. Consumers tolerate both
// pretty-printed and compact encodings, since encoding/json ignores
// whitespace either way.
func ReadJSON[T any](path string) (*T, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, amserr.New(amserr.InputMissing, "artifact: missing "+path, err)
		}
		return nil, fmt.Errorf("artifact: read %s: %w", path, err)
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, amserr.New(amserr.SchemaMismatch, "artifact: parse "+path, err)
	}
	return &v, nil
}

// Exists reports whether a path has an artifact on disk, the "skip-if-
// present" test of spec §4.11.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func writeAtomicText(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("artifact: mkdir %s: %w", filepath.Dir(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("artifact: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("artifact: rename %s -> %s: %w", tmp, path, err)
	}
	return nil
}
