package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"qbo-mcp/pkg/logging"
)

// Store persists a single credential record to a JSON file.
//
// SECURITY: the record holds live OAuth tokens. The file is created with
// 0600 permissions and its directory with 0700; token values are never
// logged.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the credential file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted record. A missing file is not an error: it
// returns (nil, nil) and the caller treats the credential as absent. A
// corrupt file is likewise treated as absent so that a damaged record
// triggers re-authorization instead of wedging every call.
func (s *Store) Load() (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read credential file %s: %w", s.path, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		logging.Warn("CredentialStore", "Credential file %s is corrupt, treating as absent", s.path)
		return nil, nil
	}

	return &rec, nil
}

// Save atomically persists the record: it writes a temporary file in the
// same directory and renames it over the target, so a crash mid-write
// never leaves a partial record. A write failure is returned to the
// caller; swallowing it would silently lose the credential on process
// exit.
func (s *Store) Save(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credential-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary credential file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set credential file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close credential file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to persist credential file: %w", err)
	}

	logging.Debug("CredentialStore", "Saved credential for company=%s environment=%s (expires %s)",
		rec.CompanyID, rec.Environment, rec.Expiry.Format("2006-01-02T15:04:05Z07:00"))
	return nil
}

// Delete removes the persisted record. Deleting an absent record is not
// an error.
func (s *Store) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete credential file: %w", err)
	}
	logging.Info("CredentialStore", "Deleted credential file %s", s.path)
	return nil
}
