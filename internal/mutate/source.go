package mutate

import (
	"regexp"
	"strings"
)

// InsertImport adds an import statement after the last existing import.
// The sentinel is the module specifier: if any import already references
// it the content is unchanged.
type InsertImport struct {
	Specifier string // e.g. "@/store/provider"
	Statement string // full import line, without trailing newline
}

func (m InsertImport) Describe() string { return "import " + m.Specifier }

func (m InsertImport) Apply(content string) (string, bool, error) {
	if hasImport(content, m.Specifier) {
		return content, false, nil
	}

	lines := strings.Split(content, "\n")
	at := lastImportEnd(lines) + 1
	if at == 0 {
		at = directiveEnd(lines) + 1
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:at]...)
	out = append(out, m.Statement)
	out = append(out, lines[at:]...)
	return strings.Join(out, "\n"), true, nil
}

func hasImport(content, specifier string) bool {
	return strings.Contains(content, `from "`+specifier+`"`) ||
		strings.Contains(content, `from '`+specifier+`'`) ||
		strings.Contains(content, `import "`+specifier+`"`) ||
		strings.Contains(content, `import '`+specifier+`'`)
}

// lastImportEnd returns the index of the line closing the last import
// statement in the leading import run, or -1. Scanning stops at the first
// statement that is not an import.
func lastImportEnd(lines []string) int {
	last := -1
	inImport := false
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if inImport {
			if strings.Contains(line, " from ") || strings.HasPrefix(line, "} from") || strings.HasPrefix(line, "from ") {
				inImport = false
				last = i
			}
			continue
		}
		switch {
		case strings.HasPrefix(line, "import ") || strings.HasPrefix(line, "import{"):
			if importComplete(line) {
				last = i
			} else {
				inImport = true
			}
		case isPreamble(line):
		default:
			return last
		}
	}
	return last
}

// isPreamble reports lines allowed around imports: blanks, comments and
// module directives.
func isPreamble(line string) bool {
	switch {
	case line == "":
		return true
	case strings.HasPrefix(line, "//"), strings.HasPrefix(line, "/*"), strings.HasPrefix(line, "*"):
		return true
	case strings.HasPrefix(line, `"use `), strings.HasPrefix(line, `'use `):
		return true
	}
	return false
}

func importComplete(line string) bool {
	if strings.Contains(line, " from ") {
		return true
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, "import"))
	return strings.HasPrefix(rest, `"`) || strings.HasPrefix(rest, `'`)
}

// directiveEnd returns the index of a leading "use client"/"use server"
// directive, or -1.
func directiveEnd(lines []string) int {
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, `"use `) || strings.HasPrefix(line, `'use `) {
			return i
		}
		return -1
	}
	return -1
}

var bodyPattern = regexp.MustCompile(`(?s)(<body[^>]*>)(.*?)(</body>)`)

// WrapBody wraps the children of <body> in a provider component. The
// sentinel is the component's opening tag.
type WrapBody struct {
	Component string // e.g. "StoreProvider"
}

func (m WrapBody) Describe() string { return "wrap <body> in <" + m.Component + ">" }

func (m WrapBody) Apply(content string) (string, bool, error) {
	if strings.Contains(content, "<"+m.Component+">") || strings.Contains(content, "<"+m.Component+" ") {
		return content, false, nil
	}
	loc := bodyPattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return content, false, ErrAnchorNotFound
	}

	open := content[loc[2]:loc[3]]
	inner := content[loc[4]:loc[5]]
	closeTag := content[loc[6]:loc[7]]

	indent := lineIndent(content, loc[6])
	childIndent := indent + "  "
	body := strings.TrimSpace(inner)
	body = strings.ReplaceAll(body, "\n", "\n  ")

	wrapped := open + "\n" +
		childIndent + "<" + m.Component + ">\n" +
		childIndent + "  " + body + "\n" +
		childIndent + "</" + m.Component + ">\n" +
		indent + closeTag
	return content[:loc[0]] + wrapped + content[loc[1]:], true, nil
}

// lineIndent returns the leading whitespace of the line containing pos.
func lineIndent(content string, pos int) string {
	start := strings.LastIndex(content[:pos], "\n") + 1
	end := start
	for end < len(content) && (content[end] == ' ' || content[end] == '\t') {
		end++
	}
	return content[start:end]
}

// AppendBlock appends a block of text unless the sentinel is present.
type AppendBlock struct {
	Sentinel string
	Block    string
	Label    string
}

func (m AppendBlock) Describe() string {
	if m.Label != "" {
		return m.Label
	}
	return "append block " + m.Sentinel
}

func (m AppendBlock) Apply(content string) (string, bool, error) {
	if strings.Contains(content, m.Sentinel) {
		return content, false, nil
	}
	return ensureTrailingNewline(content) + ensureTrailingNewline(m.Block), true, nil
}

// InsertAfter inserts text right after the first match of Anchor unless the
// sentinel is present.
type InsertAfter struct {
	Anchor   *regexp.Regexp
	Sentinel string
	Text     string
	Label    string
}

func (m InsertAfter) Describe() string {
	if m.Label != "" {
		return m.Label
	}
	return "insert " + m.Sentinel
}

func (m InsertAfter) Apply(content string) (string, bool, error) {
	if strings.Contains(content, m.Sentinel) {
		return content, false, nil
	}
	loc := m.Anchor.FindStringIndex(content)
	if loc == nil {
		return content, false, ErrAnchorNotFound
	}
	return content[:loc[1]] + m.Text + content[loc[1]:], true, nil
}
