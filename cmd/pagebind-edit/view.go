package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("243"))
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	oldStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Strikethrough(true)
	newStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	kindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	statusStyle = lipgloss.NewStyle().Faint(true)
)

func (m appModel) View() string {
	var b strings.Builder

	mode := "viewing"
	if m.component.IsEditing() {
		mode = "editing"
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("pagebind %s — %s", m.sourceID, mode)))
	b.WriteString("\n\n")

	if len(m.changes) == 0 {
		b.WriteString(headerStyle.Render("no changes"))
		b.WriteString("\n")
	} else {
		b.WriteString(headerStyle.Render(fmt.Sprintf("changes (%d)", len(m.changes))))
		b.WriteString("\n")
		for _, c := range m.changes {
			b.WriteString(fmt.Sprintf("  %s  %s %s %s  %s\n",
				pathStyle.Render(c.Path),
				oldStyle.Render(compact(c.OldValue)),
				headerStyle.Render("→"),
				newStyle.Render(compact(c.NewValue)),
				kindStyle.Render(string(c.Kind)),
			))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	return b.String()
}

// compact renders a JSON value on one short line.
func compact(v any) string {
	if v == nil {
		return "∅"
	}
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	const maxLen = 40
	s := string(out)
	if len(s) > maxLen {
		s = s[:maxLen-1] + "…"
	}
	return s
}
