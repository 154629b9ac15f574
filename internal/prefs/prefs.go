// Package prefs is the simple persistent key-value preference store used for
// the user name and provider credentials. Values live in a single JSON file
// written atomically.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Well-known preference keys.
const (
	KeyUserName        = "userName"
	KeyDeepSeekAPIKey  = "deepSeekAPIKey"
	KeyDashScopeAPIKey = "dashScopeAPIKey"
)

// Prefs is a file-backed key-value store. Safe for concurrent use.
type Prefs struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// Open loads the preference file at path, starting empty when it is absent.
func Open(path string) (*Prefs, error) {
	p := &Prefs{path: path, values: map[string]string{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("prefs: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &p.values); err != nil {
		return nil, fmt.Errorf("prefs: decode %s: %w", path, err)
	}
	return p, nil
}

// Get returns the value for key, or empty when unset.
func (p *Prefs) Get(key string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values[key]
}

// Set stores the value for key and persists the file.
func (p *Prefs) Set(key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
	return p.saveLocked()
}

// Delete removes key and persists the file. Deleting an absent key is a no-op.
func (p *Prefs) Delete(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.values[key]; !ok {
		return nil
	}
	delete(p.values, key)
	return p.saveLocked()
}

func (p *Prefs) saveLocked() error {
	data, err := json.MarshalIndent(p.values, "", "  ")
	if err != nil {
		return fmt.Errorf("prefs: encode: %w", err)
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("prefs: create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*.tmp")
	if err != nil {
		return fmt.Errorf("prefs: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("prefs: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("prefs: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("prefs: replace %s: %w", filepath.Base(p.path), err)
	}
	return nil
}
