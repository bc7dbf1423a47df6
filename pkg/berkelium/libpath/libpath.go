// Package libpath makes a directory visible to the dynamic loader and to
// child processes started by the engine.
package libpath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Configure prepends dir to the platform library search path and to PATH.
func Configure(dir string) error {
	if err := setLibraryDir(dir); err != nil {
		return fmt.Errorf("set library directory %s: %w", dir, err)
	}
	if _, err := Prepend("PATH", dir); err != nil {
		return err
	}
	return nil
}

// Prepend puts dir first in the list held by the environment variable key.
// It reports whether the variable changed.
func Prepend(key, dir string) (bool, error) {
	current := os.Getenv(key)
	entries := filepath.SplitList(current)
	if len(entries) > 0 && sameDir(entries[0], dir) {
		return false, nil
	}

	updated := dir
	if current != "" {
		updated = dir + string(os.PathListSeparator) + current
	}
	if err := os.Setenv(key, updated); err != nil {
		return false, fmt.Errorf("set %s: %w", key, err)
	}
	return true, nil
}

func sameDir(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if os.PathSeparator == '\\' {
		return strings.EqualFold(a, b)
	}
	return a == b
}
