package mutate

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Manifest sections merged by MergeManifest, in write order.
var manifestSections = []string{"scripts", "dependencies", "devDependencies"}

// ManifestStats counts the keys a merge added and updated.
type ManifestStats struct {
	Added   int
	Updated int
	// Entries counts keys across the merged sections after the merge.
	Entries map[string]int
}

// Changed reports whether the merge modified the manifest.
func (s ManifestStats) Changed() bool {
	return s.Added+s.Updated > 0
}

// MergeManifest merges key/value maps into package.json sections with
// last-write-wins semantics. Existing keys keep their position and new keys
// are appended. A changed manifest is re-indented with two spaces.
type MergeManifest struct {
	Sections map[string]map[string]string

	stats ManifestStats
}

func (m *MergeManifest) Describe() string { return "merge package.json" }

// Stats returns the counts from the last Apply.
func (m *MergeManifest) Stats() ManifestStats { return m.stats }

func (m *MergeManifest) Apply(content string) (string, bool, error) {
	m.stats = ManifestStats{Entries: map[string]int{}}
	if strings.TrimSpace(content) == "" {
		content = "{}"
	}
	if !gjson.Valid(content) {
		return content, false, errors.New("package.json is not valid JSON")
	}

	out := content
	for _, section := range orderedSections(m.Sections) {
		existing := gjson.Get(out, section).Map()
		additions := m.Sections[section]

		keys := make([]string, 0, len(additions))
		for k := range additions {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			value := additions[key]
			if cur, ok := existing[key]; ok {
				if cur.Type == gjson.String && cur.Str == value {
					continue
				}
				m.stats.Updated++
			} else {
				m.stats.Added++
			}
			path := section + "." + escapePath(key)
			var err error
			out, err = sjson.Set(out, path, value)
			if err != nil {
				return content, false, fmt.Errorf("set %s.%s: %w", section, key, err)
			}
			if got := gjson.Get(out, path); got.Type != gjson.String || got.Str != value {
				return content, false, fmt.Errorf("set %s.%s: value not written", section, key)
			}
		}
	}

	for _, section := range manifestSections {
		m.stats.Entries[section] = len(gjson.Get(out, section).Map())
	}

	if !m.stats.Changed() {
		return content, false, nil
	}
	// Width -1 keeps every array expanded, as npm writes them
	formatted := pretty.PrettyOptions([]byte(out), &pretty.Options{Width: -1, Indent: "  "})
	return string(formatted), true, nil
}

func orderedSections(sections map[string]map[string]string) []string {
	var out []string
	for _, s := range manifestSections {
		if len(sections[s]) > 0 {
			out = append(out, s)
		}
	}
	var extra []string
	for s, vals := range sections {
		if len(vals) > 0 && !slices.Contains(manifestSections, s) {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	".", `\.`,
	"*", `\*`,
	"?", `\?`,
	"@", `\@`,
	"#", `\#`,
	"|", `\|`,
)

// escapePath escapes characters gjson and sjson treat as path syntax, so
// scoped names like @prisma/client are written as plain keys.
func escapePath(key string) string {
	return pathEscaper.Replace(key)
}

// MergeManifestFile merges sections into the package.json at path.
// The manifest must already exist.
func MergeManifestFile(path string, sections map[string]map[string]string) (ManifestStats, error) {
	m := &MergeManifest{Sections: sections}
	if _, err := ApplyFile(path, false, m); err != nil {
		return m.Stats(), err
	}
	return m.Stats(), nil
}
