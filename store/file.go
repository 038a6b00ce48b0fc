package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-session"
)

// FileStore persists the session as a JSON document on disk. Writes go
// through a temp file and a rename, so a crash mid-write leaves either the
// old session or the new one, never a torn record.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ session.TokenStore = (*FileStore)(nil)

// NewFileStore creates a file-backed store at the given path. Parent
// directories are created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get reads the persisted session. A missing or unreadable file reads as
// an empty session; storage trouble must not block startup.
func (f *FileStore) Get(ctx context.Context) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return session.Session{}, nil
		}
		return session.Session{}, nil
	}

	var s session.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		// Corrupt file: treat as logged out rather than failing forever.
		return session.Session{}, nil
	}

	return s.Normalize(), nil
}

func (f *FileStore) Set(ctx context.Context, s session.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := json.Marshal(s.Normalize())
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to encode session")
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create session directory")
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create temp session file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, errors.CategoryInternal, "failed to write session file")
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, errors.CategoryInternal, "failed to set session file mode")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, errors.CategoryInternal, "failed to close session file")
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, errors.CategoryInternal, "failed to replace session file")
	}

	return nil
}

func (f *FileStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.CategoryInternal, "failed to remove session file")
	}
	return nil
}
