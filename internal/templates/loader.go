// Package templates loads file templates and substitutes {{TOKEN}} placeholders.
package templates

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

//go:embed files/*.tmpl
var embeddedTemplates embed.FS

const templateExt = ".tmpl"

// Vars maps placeholder names (without braces) to replacement text.
type Vars map[string]string

// Loader handles loading and rendering file templates
type Loader struct {
	templateDir string
}

// NewLoader creates a new template loader.
// templateDir is the directory containing override templates (optional)
func NewLoader(templateDir string) *Loader {
	return &Loader{templateDir: templateDir}
}

// Load loads the template with the given ID.
// Priority order:
// 1. <templateDir>/<id>.tmpl (if templateDir is set and the file exists)
// 2. Embedded default template
func (l *Loader) Load(id string) (string, error) {
	if l.templateDir != "" {
		path := filepath.Join(l.templateDir, id+templateExt)
		if content, err := os.ReadFile(path); err == nil {
			return string(content), nil
		}
		// File doesn't exist, fall through to embedded
	}

	content, err := embeddedTemplates.ReadFile("files/" + id + templateExt)
	if err != nil {
		return "", fmt.Errorf("template %q not found", id)
	}
	return string(content), nil
}

// LoadAndRender loads and renders a template in one step
func (l *Loader) LoadAndRender(id string, vars Vars) (string, error) {
	tmpl, err := l.Load(id)
	if err != nil {
		return "", err
	}
	return Render(tmpl, vars), nil
}

// ListAvailable returns the sorted IDs of all loadable templates
func (l *Loader) ListAvailable() ([]string, error) {
	ids := make(map[string]bool)

	entries, err := embeddedTemplates.ReadDir("files")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), templateExt) {
			ids[strings.TrimSuffix(entry.Name(), templateExt)] = true
		}
	}

	if l.templateDir != "" {
		if entries, err := os.ReadDir(l.templateDir); err == nil {
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), templateExt) {
					ids[strings.TrimSuffix(entry.Name(), templateExt)] = true
				}
			}
		}
	}

	result := make([]string, 0, len(ids))
	for id := range ids {
		result = append(result, id)
	}
	sort.Strings(result)
	return result, nil
}

var tokenPattern = regexp.MustCompile(`\{\{[A-Z][A-Z0-9_]*\}\}`)

// Render replaces each {{KEY}} in text with vars[KEY] in a single pass.
// Replacement text is never rescanned, so values containing tokens are
// inserted literally. Tokens without a value are left in place.
func Render(text string, vars Vars) string {
	if len(vars) == 0 {
		return text
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(vars)*2)
	for _, k := range keys {
		pairs = append(pairs, "{{"+k+"}}", vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Missing returns the distinct placeholder tokens still present in text.
func Missing(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}
