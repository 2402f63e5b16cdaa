package orchestrator

import (
	"fmt"
	"strings"

	"github.com/tuannvm/stackforge/internal/state"
)

// Status is the outcome class of a handler invocation.
type Status int

const (
	StatusSuccess Status = iota
	StatusPartial
	StatusFailure
)

// Marker returns the leading symbol callers parse from the response text.
func (s Status) Marker() string {
	switch s {
	case StatusPartial:
		return "⚠️"
	case StatusFailure:
		return "❌"
	default:
		return "✅"
	}
}

func (s Status) journal() string {
	switch s {
	case StatusPartial:
		return state.StatusPartial
	case StatusFailure:
		return state.StatusFailure
	default:
		return state.StatusSuccess
	}
}

type fact struct {
	key, value string
}

// Report accumulates the human-readable summary of one handler run.
type Report struct {
	status    Status
	title     string
	facts     []fact
	files     []string
	commands  []string
	notes     []string
	nextSteps []string
}

func newReport(title string) *Report {
	return &Report{title: title}
}

// Status returns the current outcome.
func (r *Report) Status() Status {
	return r.status
}

// Title replaces the headline.
func (r *Report) Title(format string, args ...any) {
	r.title = fmt.Sprintf(format, args...)
}

// Degrade lowers the outcome to s. A failure is never upgraded.
func (r *Report) Degrade(s Status) {
	if s > r.status {
		r.status = s
	}
}

// Fail marks the report failed with the given headline.
func (r *Report) Fail(format string, args ...any) *Report {
	r.status = StatusFailure
	r.title = fmt.Sprintf(format, args...)
	return r
}

// Fact adds a "key: value" summary line.
func (r *Report) Fact(key, value string) {
	r.facts = append(r.facts, fact{key, value})
}

// File records what happened to a project-relative path.
func (r *Report) File(rel, what string) {
	r.files = append(r.files, fmt.Sprintf("%s (%s)", rel, what))
}

// Command records an executed command line.
func (r *Report) Command(ok bool, label, command string) {
	mark := "✓"
	if !ok {
		mark = "✗"
	}
	r.commands = append(r.commands, fmt.Sprintf("%s %s: %s", mark, label, command))
}

// Note adds a free-form remark.
func (r *Report) Note(format string, args ...any) {
	r.notes = append(r.notes, fmt.Sprintf(format, args...))
}

// Next adds a follow-up instruction for the user.
func (r *Report) Next(format string, args ...any) {
	r.nextSteps = append(r.nextSteps, fmt.Sprintf(format, args...))
}

// Text renders the report. The first line always starts with the marker.
func (r *Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", r.status.Marker(), r.title)

	if len(r.facts) > 0 {
		b.WriteString("\n")
		for _, f := range r.facts {
			fmt.Fprintf(&b, "%s: %s\n", f.key, f.value)
		}
	}
	section(&b, "Files", r.files, func(i int) string { return "  • " })
	section(&b, "Commands", r.commands, func(i int) string { return "  " })
	section(&b, "Notes", r.notes, func(i int) string { return "  - " })
	section(&b, "Next steps", r.nextSteps, func(i int) string { return fmt.Sprintf("  %d. ", i+1) })

	return strings.TrimRight(b.String(), "\n")
}

func section(b *strings.Builder, heading string, lines []string, prefix func(int) string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", heading)
	for i, l := range lines {
		b.WriteString(prefix(i))
		b.WriteString(l)
		b.WriteString("\n")
	}
}
