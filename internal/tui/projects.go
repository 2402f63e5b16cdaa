package tui

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/tuannvm/stackforge/internal/config"
)

const maxProjects = 10

// DiscoverProjects returns root and its immediate subdirectories that hold a
// package.json, most recently modified first, limited to 10.
func DiscoverProjects(root string) []string {
	candidates := []string{root}
	if entries, err := os.ReadDir(root); err == nil {
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() && !strings.HasPrefix(name, ".") && name != "node_modules" {
				candidates = append(candidates, filepath.Join(root, name))
			}
		}
	}

	type project struct {
		dir     string
		touched time.Time
	}
	var found []project
	for _, dir := range candidates {
		info, err := os.Stat(filepath.Join(dir, "package.json"))
		if err == nil && !info.IsDir() {
			found = append(found, project{dir, info.ModTime()})
		}
	}
	slices.SortStableFunc(found, func(a, b project) int {
		return b.touched.Compare(a.touched)
	})

	dirs := make([]string, 0, min(len(found), maxProjects))
	for _, p := range found[:min(len(found), maxProjects)] {
		dirs = append(dirs, p.dir)
	}
	return dirs
}

// ProjectConfigPath returns the stackforge.yaml inside dir when present.
func ProjectConfigPath(dir string) (string, bool) {
	path := filepath.Join(dir, config.ProjectFileName)
	return path, FileExists(path)
}

// FileExists reports whether path is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
