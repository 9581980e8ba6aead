package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pagebind/pagebind"
)

// appModel holds the TUI state.
type appModel struct {
	component *pagebind.Component
	sourceID  string

	input   textinput.Model
	changes []pagebind.ChangeRecord
	status  string
	width   int
}

func initialModel(component *pagebind.Component, sourceID string) appModel {
	ti := textinput.New()
	ti.Placeholder = `path = value   (or  + arrayPath {"item":...} to prepend)`
	ti.CharLimit = 200
	ti.Focus()

	return appModel{
		component: component,
		sourceID:  sourceID,
		input:     ti,
		status:    "tab toggles editing mode, enter applies, ctrl+c quits",
	}
}

func (m appModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			return m.toggleEditing(), nil
		case tea.KeyEnter:
			return m.applyInput(), nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) toggleEditing() appModel {
	resp := m.component.HandleMessage(pagebind.Request{
		Type:    pagebind.MessageToggleEditing,
		Enabled: !m.component.IsEditing(),
	})
	if !resp.Success {
		m.status = resp.Error
		return m
	}
	if m.component.IsEditing() {
		m.status = "editing enabled"
	} else {
		m.status = "editing disabled"
	}
	return m
}

// applyInput parses one edit expression. "path = value" updates a value;
// "+ path value" prepends an item to the array at path. Values that parse
// as JSON keep their type, anything else is stored as a string, matching
// how blur capture stores edited text.
func (m appModel) applyInput() appModel {
	expr := strings.TrimSpace(m.input.Value())
	if expr == "" {
		return m
	}

	var err error
	if rest, ok := strings.CutPrefix(expr, "+"); ok {
		path, raw, found := strings.Cut(strings.TrimSpace(rest), " ")
		if !found {
			m.status = "insert needs: + arrayPath item"
			return m
		}
		err = m.component.InsertArrayItem(path, parseValue(raw))
	} else {
		path, raw, found := strings.Cut(expr, "=")
		if !found {
			m.status = "edit needs: path = value"
			return m
		}
		err = m.component.UpdateValue(strings.TrimSpace(path), parseValue(raw))
	}
	if err != nil {
		m.status = err.Error()
		return m
	}

	m.input.SetValue("")
	return m.refreshChanges()
}

func (m appModel) refreshChanges() appModel {
	changes, err := m.component.GetChanges()
	if err != nil {
		m.status = err.Error()
		return m
	}
	m.changes = changes.Changes
	m.status = fmt.Sprintf("%d change(s) against %s", len(m.changes), m.sourceID)
	return m
}

// parseValue keeps JSON-typed input typed and falls back to a plain string.
func parseValue(raw string) any {
	raw = strings.TrimSpace(raw)
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
