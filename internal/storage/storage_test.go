package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// Both backends under test satisfy the same contract, so exercise
// them through one table.
func kvBackends(t *testing.T) map[string]KV {
	t.Helper()
	return map[string]KV{
		"memory": NewMemory(),
		"file":   NewFile(filepath.Join(t.TempDir(), "storage.json")),
	}
}

func TestKV_SetGetRemove(t *testing.T) {
	for name, kv := range kvBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := kv.Get("missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
			}

			if err := kv.Set("user", `{"id":"1"}`); err != nil {
				t.Fatalf("Set() error: %v", err)
			}
			got, err := kv.Get("user")
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if got != `{"id":"1"}` {
				t.Errorf("Get() = %q, want %q", got, `{"id":"1"}`)
			}

			if err := kv.Set("user", `{"id":"2"}`); err != nil {
				t.Fatalf("Set() overwrite error: %v", err)
			}
			got, _ = kv.Get("user")
			if got != `{"id":"2"}` {
				t.Errorf("Get() after overwrite = %q, want %q", got, `{"id":"2"}`)
			}

			if err := kv.Remove("user"); err != nil {
				t.Fatalf("Remove() error: %v", err)
			}
			if _, err := kv.Get("user"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() after Remove error = %v, want ErrNotFound", err)
			}

			// Removing an absent key is a no-op.
			if err := kv.Remove("user"); err != nil {
				t.Errorf("Remove() of absent key error: %v", err)
			}
		})
	}
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	first := NewFile(path)
	if err := first.Set("user", "record"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	second := NewFile(path)
	got, err := second.Get("user")
	if err != nil {
		t.Fatalf("Get() from fresh instance error: %v", err)
	}
	if got != "record" {
		t.Errorf("Get() = %q, want %q", got, "record")
	}
}

func TestFile_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	f := NewFile(path)
	if _, err := f.Get("user"); err == nil {
		t.Error("Get() on corrupt file should return error")
	}
}
