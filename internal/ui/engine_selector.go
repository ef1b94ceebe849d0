package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/caraveo/aske/pkg/types"
)

// EngineOption describes one selectable database engine
type EngineOption struct {
	Engine  types.Engine
	Port    int
	Service string
}

// EngineModel is the bubbletea model for picking a database engine
type EngineModel struct {
	options   []EngineOption
	name      string // Container being created, for the title
	cursor    int
	selected  *EngineOption
	quitting  bool
	cancelled bool
}

// NewEngineModel creates an engine picker for container name
func NewEngineModel(options []EngineOption, name string) EngineModel {
	return EngineModel{options: options, name: name}
}

// Init implements tea.Model
func (m EngineModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m EngineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		m.cancelled = true
		return m, tea.Quit

	case tea.KeyEnter:
		return m.choose(m.cursor)

	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case tea.KeyDown:
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}

	case tea.KeyRunes:
		// 1-9 select directly
		if n, err := strconv.Atoi(string(key.Runes)); err == nil && n >= 1 && n <= len(m.options) {
			return m.choose(n - 1)
		}
	}

	return m, nil
}

func (m EngineModel) choose(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(m.options) {
		return m, nil
	}
	opt := m.options[idx]
	m.selected = &opt
	m.quitting = true
	return m, tea.Quit
}

// View implements tea.Model
func (m EngineModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render(fmt.Sprintf("Select a database engine for %s", m.name)))
	sb.WriteString("\n\n")

	for i, opt := range m.options {
		prefix := "   "
		if i == m.cursor {
			prefix = " > "
		}
		fmt.Fprintf(&sb, "%s%d. %s %s\n",
			prefix, i+1,
			EngineStyle.Render(padRight(opt.Engine.DisplayName(), 12)),
			MutedStyle.Render(fmt.Sprintf("port %d, service %s", opt.Port, opt.Service)))
	}

	sb.WriteString("\n")
	sb.WriteString(HintStyle.Render("[↑/↓:move] [1-9:pick] [Enter:select] [Esc:cancel]"))
	sb.WriteString("\n")
	return sb.String()
}

// Selected returns the chosen engine, or nil
func (m EngineModel) Selected() *EngineOption {
	return m.selected
}

// SelectEngine displays an interactive engine picker
func SelectEngine(options []EngineOption, name string) (types.Engine, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no engines available")
	}

	finalModel, err := tea.NewProgram(NewEngineModel(options, name)).Run()
	if err != nil {
		return "", fmt.Errorf("error running selector: %w", err)
	}

	result := finalModel.(EngineModel)
	if result.cancelled || result.selected == nil {
		return "", ErrSelectionCancelled
	}
	return result.selected.Engine, nil
}
