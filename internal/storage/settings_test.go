package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *SettingsStore {
	t.Helper()
	s, err := OpenSettings(t.TempDir())
	if err != nil {
		t.Fatalf("OpenSettings() error = %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return s
}

func TestSetGetRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if err := s.Set("greeting", "hello"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get("greeting")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "hello" {
		t.Fatalf("Get() = %q; want %q", got, "hello")
	}
}

func TestSetReplacesExistingValue(t *testing.T) {
	s := openTestStore(t)

	if err := s.Set("k", "v1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set("k", "v2"); err != nil {
		t.Fatalf("Set() second error = %v", err)
	}
	got, err := s.Get("k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "v2" {
		t.Fatalf("Get() = %q; want %q", got, "v2")
	}
}

func TestGetMissingKeyReturnsEmpty(t *testing.T) {
	s := openTestStore(t)

	got, err := s.Get("never-set")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "" {
		t.Fatalf("Get() = %q; want empty", got)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := openTestStore(t)

	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete() of absent key error = %v", err)
	}
	got, err := s.Get("k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "" {
		t.Fatalf("Get() after delete = %q; want empty", got)
	}
}

func TestAPIKeyHelpers(t *testing.T) {
	s := openTestStore(t)

	key, err := s.APIKey()
	if err != nil {
		t.Fatalf("APIKey() error = %v", err)
	}
	if key != "" {
		t.Fatalf("APIKey() = %q; want empty before save", key)
	}

	if err := s.SaveAPIKey("PMAK-abc"); err != nil {
		t.Fatalf("SaveAPIKey() error = %v", err)
	}
	key, err = s.APIKey()
	if err != nil {
		t.Fatalf("APIKey() error = %v", err)
	}
	if key != "PMAK-abc" {
		t.Fatalf("APIKey() = %q; want %q", key, "PMAK-abc")
	}

	if err := s.DeleteAPIKey(); err != nil {
		t.Fatalf("DeleteAPIKey() error = %v", err)
	}
	key, err = s.APIKey()
	if err != nil {
		t.Fatalf("APIKey() error = %v", err)
	}
	if key != "" {
		t.Fatalf("APIKey() = %q; want empty after delete", key)
	}
}

func TestSettingsFilePermissions(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenSettings(dir)
	if err != nil {
		t.Fatalf("OpenSettings() error = %v", err)
	}
	defer s.Close()

	info, err := os.Stat(filepath.Join(dir, dbFile))
	if err != nil {
		t.Fatalf("stat db file: %v", err)
	}
	if got := info.Mode().Perm(); got != secureFileMode {
		t.Fatalf("db file mode = %o; want %o", got, secureFileMode)
	}
}

func TestSettingsSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenSettings(dir)
	if err != nil {
		t.Fatalf("OpenSettings() error = %v", err)
	}
	if err := s.SaveAPIKey("PMAK-persist"); err != nil {
		t.Fatalf("SaveAPIKey() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s2, err := OpenSettings(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s2.Close()
	key, err := s2.APIKey()
	if err != nil {
		t.Fatalf("APIKey() error = %v", err)
	}
	if key != "PMAK-persist" {
		t.Fatalf("APIKey() = %q; want value from first open", key)
	}
}
