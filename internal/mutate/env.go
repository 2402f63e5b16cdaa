package mutate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
)

// SetEnv replaces or appends a KEY="value" line. An existing line with the
// same value is left untouched.
type SetEnv struct {
	Key   string
	Value string
}

func (m SetEnv) Describe() string { return "set " + m.Key }

func (m SetEnv) Apply(content string) (string, bool, error) {
	current, found := lookupEnv(content, m.Key)
	if found && current == m.Value {
		return content, false, nil
	}
	line := formatEnvLine(m.Key, m.Value)
	if found {
		re := envLinePattern(m.Key)
		replaced := false
		out := re.ReplaceAllStringFunc(content, func(match string) string {
			if replaced {
				return ""
			}
			replaced = true
			return line
		})
		return out, out != content, nil
	}
	return appendLine(content, line), true, nil
}

// EnsureEnv appends KEY="value" only when KEY is absent. An existing value,
// even an empty one, is kept.
type EnsureEnv struct {
	Key   string
	Value string
}

func (m EnsureEnv) Describe() string { return "ensure " + m.Key }

func (m EnsureEnv) Apply(content string) (string, bool, error) {
	if _, found := lookupEnv(content, m.Key); found {
		return content, false, nil
	}
	return appendLine(content, formatEnvLine(m.Key, m.Value)), true, nil
}

// ReadEnv parses env file content into a map.
func ReadEnv(content string) (map[string]string, error) {
	env, err := godotenv.Unmarshal(content)
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return env, nil
}

// lookupEnv reports the value of key. Content godotenv cannot parse falls
// back to a line scan so a malformed neighbour never hides a key.
func lookupEnv(content, key string) (string, bool) {
	if env, err := godotenv.Unmarshal(content); err == nil {
		v, ok := env[key]
		return v, ok
	}
	if m := envLinePattern(key).FindStringSubmatch(content); m != nil {
		return strings.Trim(strings.TrimSpace(m[2]), `"'`), true
	}
	return "", false
}

// envLinePattern matches KEY=value and the KEY: value form godotenv also reads.
func envLinePattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*(export[ \t]+)?` + regexp.QuoteMeta(key) + `[ \t]*[=:](.*)$\n?`)
}

func formatEnvLine(key, value string) string {
	escaped := strings.ReplaceAll(value, `"`, `\"`)
	return fmt.Sprintf("%s=\"%s\"\n", key, escaped)
}

func appendLine(content, line string) string {
	return ensureTrailingNewline(content) + line
}
