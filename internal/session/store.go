package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/oguzhankoral/fcrm/pkg/domain"
)

// Store persists credentials across runs.
type Store interface {
	Load() (domain.Credentials, error)
	Save(domain.Credentials) error
	Clear() error
}

// FileStore keeps credentials in a single JSON file under the fcrm
// home directory, the terminal analog of the web client's two
// localStorage keys.
type FileStore struct {
	path string
}

// NewFileStore creates a store at dir/session.json.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, "session.json")}
}

// DefaultDir returns the fcrm home directory: FCRM_HOME if set,
// otherwise ~/.fcrm.
func DefaultDir() (string, error) {
	if dir := os.Getenv("FCRM_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".fcrm"), nil
}

// Load reads persisted credentials. A missing file yields zero
// credentials, not an error.
func (s *FileStore) Load() (domain.Credentials, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Credentials{}, nil
	}
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("read session file: %w", err)
	}
	var creds domain.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return domain.Credentials{}, fmt.Errorf("parse session file: %w", err)
	}
	return creds, nil
}

// Save writes credentials with owner-only permissions.
func (s *FileStore) Save(creds domain.Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Clear removes the session file. A missing file is fine.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
