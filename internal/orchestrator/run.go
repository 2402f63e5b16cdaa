package orchestrator

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/tuannvm/stackforge/internal/adapter"
	"github.com/tuannvm/stackforge/internal/mutate"
	"github.com/tuannvm/stackforge/internal/project"
	"github.com/tuannvm/stackforge/internal/templates"
	"github.com/tuannvm/stackforge/internal/types"
)

// run carries the per-invocation state shared by a handler's steps.
type run struct {
	op        string
	cfg       types.ProjectConfiguration
	hasConfig bool
	root      string
	paths     project.Paths
	desc      adapter.Descriptor

	exec   CommandRunner
	loader *templates.Loader
	logger *slog.Logger
	report *Report

	// written lists project-relative files this run created or changed
	written []string
}

func (r *run) arch() types.Architecture {
	return r.cfg.Architecture
}

func (r *run) abs(rel string) string {
	return filepath.Join(r.root, filepath.FromSlash(rel))
}

func (r *run) exists(rel string) bool {
	_, err := os.Stat(r.abs(rel))
	return err == nil
}

func (r *run) wrote(rel string) {
	for _, w := range r.written {
		if w == rel {
			return
		}
	}
	r.written = append(r.written, rel)
}

// mkdir creates a project-relative directory and reports whether it was new.
func (r *run) mkdir(rel string) (bool, error) {
	path := r.abs(rel)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return false, nil
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return false, err
	}
	return true, nil
}

// write stores generated content. overwrite controls whether an existing
// file with different content is replaced or kept.
func (r *run) write(rel, content string, overwrite bool) error {
	status, err := mutate.WriteFile(r.abs(rel), content, overwrite)
	if err != nil {
		return err
	}
	r.report.File(rel, status.String())
	if status.Wrote() {
		r.wrote(rel)
	}
	return nil
}

// writeTemplate renders a template and writes it like write.
func (r *run) writeTemplate(id, rel string, vars templates.Vars, overwrite bool) error {
	content, err := r.loader.LoadAndRender(id, vars)
	if err != nil {
		return err
	}
	if missing := templates.Missing(content); len(missing) > 0 {
		r.logger.Warn("template has unresolved placeholders", "template", id, "placeholders", missing)
	}
	return r.write(rel, content, overwrite)
}

// apply runs idempotent mutations against a project file.
func (r *run) apply(rel string, create bool, ms ...mutate.Mutation) (mutate.Result, error) {
	res, err := mutate.ApplyFile(r.abs(rel), create, ms...)
	if err != nil {
		return res, err
	}
	switch {
	case res.Created:
		r.report.File(rel, "created")
	case res.Changed:
		r.report.File(rel, strings.Join(res.Applied, ", "))
	default:
		r.report.File(rel, "unchanged")
	}
	if res.Created || res.Changed {
		r.wrote(rel)
	}
	return res, nil
}

// applyEnv applies ms to every env file, creating missing ones.
func (r *run) applyEnv(ms ...mutate.Mutation) error {
	for _, rel := range r.paths.EnvFiles {
		if _, err := r.apply(rel, true, ms...); err != nil {
			return err
		}
	}
	return nil
}

// readEnv parses a project env file. A missing file is empty.
func (r *run) readEnv(rel string) map[string]string {
	data, err := os.ReadFile(r.abs(rel))
	if err != nil {
		return map[string]string{}
	}
	env, err := mutate.ReadEnv(string(data))
	if err != nil {
		r.logger.Warn("failed to parse env file", "path", rel, "error", err)
		return map[string]string{}
	}
	return env
}

// mergeManifest merges the given manifest entries into package.json.
func (r *run) mergeManifest(m adapter.Manifest) (mutate.ManifestStats, error) {
	sections := map[string]map[string]string{}
	if len(m.Dependencies) > 0 {
		sections["dependencies"] = m.Dependencies
	}
	if len(m.DevDependencies) > 0 {
		sections["devDependencies"] = m.DevDependencies
	}
	if len(m.Scripts) > 0 {
		sections["scripts"] = m.Scripts
	}
	stats, err := mutate.MergeManifestFile(r.abs(r.paths.Manifest), sections)
	if err != nil {
		return stats, err
	}
	if stats.Changed() {
		r.report.File(r.paths.Manifest, plural(stats.Added, "entry", "entries")+" added, "+plural(stats.Updated, "entry", "entries")+" updated")
		r.wrote(r.paths.Manifest)
	} else {
		r.report.File(r.paths.Manifest, "unchanged")
	}
	return stats, nil
}

// ioFailure turns a file error into a failure report naming the path.
func (r *run) ioFailure(title string, err error) *Report {
	r.logger.Error("file operation failed", "error", err)
	switch {
	case errors.Is(err, mutate.ErrMissingFile):
		return r.report.Fail("%s failed: required file is missing: %v", title, err)
	case errors.Is(err, mutate.ErrAnchorNotFound):
		return r.report.Fail("%s failed: could not locate insertion point: %v", title, err)
	default:
		return r.report.Fail("%s failed: %v", title, err)
	}
}

// relOrAbs returns path relative to the current directory when that is
// shorter, for next-step instructions.
func relOrAbs(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
