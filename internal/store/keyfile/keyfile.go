// Package keyfile persists the wrapped key bundle to the local config
// directory. Only the wrapped form ever touches disk.
package keyfile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"secretto/internal/domain"
)

const bundleFile = "keybundle.json"

// Store reads and writes the wrapped key bundle under dir.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes the wrapped bundle via a temp file then rename.
func (s *Store) Save(bundle domain.WrappedKeyBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, bundleFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads the wrapped bundle. A missing file is reported via ok=false,
// not an error.
func (s *Store) Load() (domain.WrappedKeyBundle, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bundle domain.WrappedKeyBundle
	b, err := os.ReadFile(filepath.Join(s.dir, bundleFile))
	if errors.Is(err, os.ErrNotExist) {
		return bundle, false, nil
	}
	if err != nil {
		return bundle, false, err
	}
	if err := json.Unmarshal(b, &bundle); err != nil {
		return bundle, false, err
	}
	return bundle, true, nil
}
