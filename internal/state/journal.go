// Package state keeps a per-project journal of generation runs.
// It records content hashes so later runs can tell which generated files
// were edited by hand.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// JournalFile is the journal location relative to the project root.
const JournalFile = ".stackforge/journal.json"

// Status values recorded per operation
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailure = "failure"
)

// Journal is the persisted record of operations run against a project.
type Journal struct {
	// ConfigHash is the hash of the configuration used by the latest run
	ConfigHash string `json:"config_hash,omitempty"`

	// Operations maps operation names to their latest record
	Operations map[string]OperationRecord `json:"operations"`
}

// OperationRecord tracks the outcome of one operation.
type OperationRecord struct {
	Status     string            `json:"status"`
	At         time.Time         `json:"at"`
	ConfigHash string            `json:"config_hash,omitempty"`
	Files      map[string]string `json:"files,omitempty"` // relative path -> sha256
}

// Drift describes a recorded file that no longer matches its hash.
type Drift struct {
	Operation string
	Path      string
	Reason    string
}

// Manager handles journal operations for one project root.
type Manager struct {
	root        string
	journal     *Journal
	journalPath string
	now         func() time.Time
}

// NewManager creates a new journal manager for the given project root.
func NewManager(root string) *Manager {
	return &Manager{
		root:        root,
		journalPath: filepath.Join(root, JournalFile),
		journal:     &Journal{Operations: make(map[string]OperationRecord)},
		now:         time.Now,
	}
}

// Load loads the journal from disk. A missing journal is an empty one.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.journalPath)
	if err != nil {
		if os.IsNotExist(err) {
			m.journal = &Journal{Operations: make(map[string]OperationRecord)}
			return nil
		}
		return fmt.Errorf("failed to read journal: %w", err)
	}

	var j Journal
	if err := json.Unmarshal(data, &j); err != nil {
		return fmt.Errorf("failed to parse journal: %w", err)
	}
	if j.Operations == nil {
		j.Operations = make(map[string]OperationRecord)
	}
	m.journal = &j
	return nil
}

// Save persists the journal to disk.
func (m *Manager) Save() error {
	if err := os.MkdirAll(filepath.Dir(m.journalPath), 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	data, err := json.MarshalIndent(m.journal, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}

	if err := os.WriteFile(m.journalPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write journal: %w", err)
	}
	return nil
}

// Exists reports whether a journal has been written for this project.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.journalPath)
	return err == nil
}

// Journal returns the loaded journal.
func (m *Manager) Journal() *Journal {
	return m.journal
}

// Record stores the outcome of an operation along with hashes of the files it
// wrote. Paths are relative to the project root. Earlier hashes for files not
// written this time are kept.
func (m *Manager) Record(operation, status, configHash string, files []string) error {
	rec := m.journal.Operations[operation]
	if rec.Files == nil {
		rec.Files = make(map[string]string)
	}
	for _, rel := range files {
		hash, err := hashFile(filepath.Join(m.root, filepath.FromSlash(rel)))
		if err != nil {
			return fmt.Errorf("failed to hash %s: %w", rel, err)
		}
		key := filepath.ToSlash(rel)
		rec.Files[key] = hash

		// several operations edit shared files such as .env
		for name, other := range m.journal.Operations {
			if _, ok := other.Files[key]; ok && name != operation {
				other.Files[key] = hash
			}
		}
	}
	rec.Status = status
	rec.At = m.now().UTC()
	rec.ConfigHash = configHash

	m.journal.Operations[operation] = rec
	m.journal.ConfigHash = configHash
	return nil
}

// Drift returns recorded files that were modified or removed since they were
// written, sorted by path.
func (m *Manager) Drift() []Drift {
	var out []Drift
	for op, rec := range m.journal.Operations {
		for rel, want := range rec.Files {
			path := filepath.Join(m.root, filepath.FromSlash(rel))
			got, err := hashFile(path)
			switch {
			case os.IsNotExist(err):
				out = append(out, Drift{Operation: op, Path: rel, Reason: "missing"})
			case err != nil:
				out = append(out, Drift{Operation: op, Path: rel, Reason: err.Error()})
			case got != want:
				out = append(out, Drift{Operation: op, Path: rel, Reason: "modified since generation"})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path == out[j].Path {
			return out[i].Operation < out[j].Operation
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// Clear removes the journal.
func (m *Manager) Clear() error {
	m.journal = &Journal{Operations: make(map[string]OperationRecord)}
	err := os.Remove(m.journalPath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// HashConfig computes a stable hash of any JSON-serializable configuration.
func HashConfig(cfg any) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config for hashing: %w", err)
	}
	return hashBytes(data), nil
}

// hashFile computes the SHA-256 hash of a single file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// hashBytes computes the SHA-256 hash of bytes.
func hashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
