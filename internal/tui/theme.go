package tui

import (
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Palette for reports and the wizard; ANSI 256 codes
var (
	ColorAccent  = lipgloss.Color("6")
	ColorDim     = lipgloss.Color("241")
	ColorOK      = lipgloss.Color("42")
	ColorPartial = lipgloss.Color("214")
	ColorFailed  = lipgloss.Color("196")
)

// Styles groups the lipgloss styles used by CLI output.
type Styles struct {
	Heading lipgloss.Style
	Title   lipgloss.Style
	OK      lipgloss.Style
	Partial lipgloss.Style
	Failed  lipgloss.Style
	Dim     lipgloss.Style
}

// DefaultStyles returns the stackforge output styles.
func DefaultStyles() Styles {
	base := lipgloss.NewStyle()
	return Styles{
		Heading: base.Bold(true).Foreground(ColorAccent).
			BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(ColorDim).
			Padding(0, 1).MarginBottom(1),
		Title:   base.Bold(true).Foreground(ColorAccent),
		OK:      base.Bold(true).Foreground(ColorOK),
		Partial: base.Foreground(ColorPartial),
		Failed:  base.Bold(true).Foreground(ColorFailed),
		Dim:     base.Foreground(ColorDim),
	}
}

// ForMarker picks the style for a report headline by its leading marker.
func (s Styles) ForMarker(line string) lipgloss.Style {
	switch {
	case strings.HasPrefix(line, "❌"):
		return s.Failed
	case strings.HasPrefix(line, "⚠️"):
		return s.Partial
	case strings.HasPrefix(line, "✅"):
		return s.OK
	default:
		return s.Title
	}
}

// Banner returns the styled app banner
func Banner() string {
	logo := ` ███████╗████████╗ █████╗  ██████╗██╗  ██╗███████╗ ██████╗ ██████╗  ██████╗ ███████╗
 ██╔════╝╚══██╔══╝██╔══██╗██╔════╝██║ ██╔╝██╔════╝██╔═══██╗██╔══██╗██╔════╝ ██╔════╝
 ███████╗   ██║   ███████║██║     █████╔╝ █████╗  ██║   ██║██████╔╝██║  ███╗█████╗
 ╚════██║   ██║   ██╔══██║██║     ██╔═██╗ ██╔══╝  ██║   ██║██╔══██╗██║   ██║██╔══╝
 ███████║   ██║   ██║  ██║╚██████╗██║  ██╗██║     ╚██████╔╝██║  ██║╚██████╔╝███████╗
 ╚══════╝   ╚═╝   ╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝╚═╝      ╚═════╝ ╚═╝  ╚═╝ ╚═════╝ ╚══════╝
`
	st := DefaultStyles()
	return st.Title.Render(logo) + "\n" + st.Dim.Italic(true).Render(" Pick a stack, get a Next.js app.") + "\n"
}

// StackforgeTheme adapts the charm form theme to the stackforge palette.
func StackforgeTheme() *huh.Theme {
	t := huh.ThemeCharm()
	t.Focused.Title = t.Focused.Title.Foreground(ColorAccent).Bold(true)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorOK)
	t.Focused.Description = t.Focused.Description.Foreground(ColorDim)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorFailed)
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorDim)
	return t
}

// RenderReport colors the first line of an operation report by its marker
// and dims the section headings. The text is otherwise unchanged.
func RenderReport(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) == 0 {
		return text
	}

	st := DefaultStyles()
	lines[0] = st.ForMarker(lines[0]).Render(lines[0])
	for i := 1; i < len(lines); i++ {
		if strings.HasSuffix(lines[i], ":") && !strings.HasPrefix(lines[i], " ") {
			lines[i] = st.Dim.Render(lines[i])
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
