// Package store persists the session to disk, the CLI's stand-in for the
// browser's local storage. A single JSON file holds the one active session;
// because the whole session is written atomically as one record, a user token
// and an admin token can never be stored side by side.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mysterybox-game/boxctl/internal/core/domain"
)

// FileStore implements ports.SessionStore on a JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store writing to path. The parent directory is
// created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the per-user session file location, typically
// ~/.config/boxctl/session.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "boxctl", "session.json"), nil
}

// Load returns the persisted session. A missing file is not an error: it
// means logged out. A corrupt file is reported so the caller can decide to
// start fresh.
func (s *FileStore) Load() (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.LoggedOut(), nil
		}
		return domain.LoggedOut(), fmt.Errorf("read session file: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return domain.LoggedOut(), fmt.Errorf("decode session file: %w", err)
	}
	return sess.Normalize(), nil
}

// Save persists the session, replacing whatever was stored before. The file
// is written 0600: it holds a bearer token.
func (s *FileStore) Save(sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess = sess.Normalize()
	raw, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Clear removes the stored session. Removing an absent file is fine.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
