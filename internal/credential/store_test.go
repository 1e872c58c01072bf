package credential

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential.json")
	store := NewStore(path)

	original := &Record{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		Expiry:       time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
		Environment:  "sandbox",
		CompanyID:    "4620816365291234567",
		CreatedAt:    time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC),
	}

	if err := store.Save(original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected a record, got nil")
	}
	if loaded.AccessToken != original.AccessToken {
		t.Errorf("AccessToken = %q, want %q", loaded.AccessToken, original.AccessToken)
	}
	if loaded.RefreshToken != original.RefreshToken {
		t.Errorf("RefreshToken = %q, want %q", loaded.RefreshToken, original.RefreshToken)
	}
	if !loaded.Expiry.Equal(original.Expiry) {
		t.Errorf("Expiry = %v, want %v", loaded.Expiry, original.Expiry)
	}
	if loaded.CompanyID != original.CompanyID {
		t.Errorf("CompanyID = %q, want %q", loaded.CompanyID, original.CompanyID)
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope.json"))

	rec, err := store.Load()
	if err != nil {
		t.Fatalf("Load of missing file should not error, got: %v", err)
	}
	if rec != nil {
		t.Errorf("Expected nil record for missing file, got %+v", rec)
	}
}

func TestStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	store := NewStore(path)
	rec, err := store.Load()
	if err != nil {
		t.Fatalf("Corrupt file should be treated as absent, got: %v", err)
	}
	if rec != nil {
		t.Errorf("Expected nil record for corrupt file, got %+v", rec)
	}
}

func TestStoreSavePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes not meaningful on windows")
	}

	path := filepath.Join(t.TempDir(), "sub", "credential.json")
	store := NewStore(path)

	if err := store.Save(&Record{AccessToken: "tok", CompanyID: "1"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected mode 0600, got %04o", perm)
	}
}

func TestStoreDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential.json")
	store := NewStore(path)

	if err := store.Save(&Record{AccessToken: "tok", CompanyID: "1"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected file to be removed")
	}

	// Deleting again is not an error.
	if err := store.Delete(); err != nil {
		t.Errorf("Delete of absent file should not error, got: %v", err)
	}
}
