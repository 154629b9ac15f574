// Package confkit holds the small config-loading conventions shared by the
// app: paths resolved relative to the main config file, per-section config
// files, and one-time .env loading.
package confkit

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath resolves a file path against the directory of the main config
// file. Environment variables in the path are expanded first; an absolute
// path ignores the base.
func ResolvePath(base, file string) string {
	expanded := os.ExpandEnv(file)
	if filepath.IsAbs(expanded) {
		return expanded
	}
	return filepath.Join(base, expanded)
}

// Section is a configuration section that can live in its own file. The main
// config names the file; Hydrate loads it and records the resolved path.
type Section[T any] struct {
	File  string `json:",optional"`
	Value *T     `json:"-"`
}

// Hydrate resolves the section's file against base and loads it through
// loader. A section that names no file is left untouched.
func (s *Section[T]) Hydrate(base string, loader func(string) (*T, error)) error {
	if strings.TrimSpace(s.File) == "" {
		return nil
	}

	path := ResolvePath(base, s.File)
	value, err := loader(path)
	if err != nil {
		return err
	}

	s.File = path
	s.Value = value
	return nil
}
