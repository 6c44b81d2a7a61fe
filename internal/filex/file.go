// Package filex has small filesystem helpers for the client's local files.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureParentDir makes sure the directory that will hold path exists and
// returns path made absolute (relative paths resolve against the working
// directory). In-memory and URI-style SQLite DSNs are returned unchanged.
func EnsureParentDir(path string) (string, error) {
	if path == "" || path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return abs, nil
}
