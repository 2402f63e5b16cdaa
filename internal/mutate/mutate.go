// Package mutate applies idempotent edits to files produced by earlier steps.
//
// Every Mutation checks a sentinel before editing. When the sentinel is
// already present the content is returned unchanged, so applying the same
// mutation twice yields byte-identical output.
package mutate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrMissingFile is returned when the target file does not exist and
	// the caller did not allow creating it.
	ErrMissingFile = errors.New("file not found")

	// ErrAnchorNotFound is returned when a structural edit cannot find the
	// place it inserts at.
	ErrAnchorNotFound = errors.New("anchor not found")
)

// Mutation is one idempotent edit of a file's content.
type Mutation interface {
	// Describe returns a short human-readable summary of the edit.
	Describe() string
	// Apply returns the edited content and whether anything changed.
	Apply(content string) (string, bool, error)
}

// Result reports what ApplyFile did to a file.
type Result struct {
	Path    string
	Created bool
	Changed bool
	Applied []string // descriptions of mutations that changed content
}

// ApplyFile reads path, applies ms in order and writes the file back only if
// the content changed. A missing file is treated as empty when
// createIfMissing is set, otherwise ErrMissingFile is returned.
func ApplyFile(path string, createIfMissing bool, ms ...Mutation) (Result, error) {
	res := Result{Path: path}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && createIfMissing:
		res.Created = true
	case errors.Is(err, os.ErrNotExist):
		return res, fmt.Errorf("%w: %s", ErrMissingFile, path)
	default:
		return res, fmt.Errorf("read %s: %w", path, err)
	}

	content := string(data)
	for _, m := range ms {
		next, changed, err := m.Apply(content)
		if err != nil {
			return res, fmt.Errorf("%s (%s): %w", path, m.Describe(), err)
		}
		if changed {
			res.Applied = append(res.Applied, m.Describe())
			content = next
		}
	}

	res.Changed = len(res.Applied) > 0
	if !res.Changed && !res.Created {
		return res, nil
	}
	if err := writeFile(path, content); err != nil {
		return res, err
	}
	return res, nil
}

// WriteStatus reports the outcome of WriteFile.
type WriteStatus int

const (
	Unchanged WriteStatus = iota
	Created
	Updated
	Kept // existing file left alone because overwrite was not allowed
)

func (s WriteStatus) String() string {
	switch s {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Kept:
		return "kept existing"
	default:
		return "unchanged"
	}
}

// Wrote reports whether the call touched the disk.
func (s WriteStatus) Wrote() bool {
	return s == Created || s == Updated
}

// WriteFile writes a generated file, creating parent directories. Identical
// content is never rewritten. An existing file with different content is
// replaced only when overwrite is set.
func WriteFile(path, content string, overwrite bool) (WriteStatus, error) {
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if string(existing) == content {
			return Unchanged, nil
		}
		if !overwrite {
			return Kept, nil
		}
		if err := writeFile(path, content); err != nil {
			return Unchanged, err
		}
		return Updated, nil
	case errors.Is(err, os.ErrNotExist):
		if err := writeFile(path, content); err != nil {
			return Unchanged, err
		}
		return Created, nil
	default:
		return Unchanged, fmt.Errorf("read %s: %w", path, err)
	}
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ensureTrailingNewline returns s ending in exactly one newline unless empty.
func ensureTrailingNewline(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimRight(s, "\n") + "\n"
}
