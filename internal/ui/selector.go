package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/caraveo/aske/pkg/types"
)

// ErrSelectionCancelled is returned when the user leaves the selector
// without choosing
var ErrSelectionCancelled = errors.New("selection cancelled")

const (
	listHeight = 8
	minWidth   = 60
	maxWidth   = 100
	// Fixed column widths
	colWidthStatus = 12
	colWidthEngine = 12
	colWidthPort   = 6
)

// Model is the bubbletea model for picking a container instance
type Model struct {
	instances    []types.Instance
	filtered     []types.Instance
	cursor       int
	offset       int // for scrolling
	search       string
	selected     *types.Instance
	quitting     bool
	cancelled    bool
	termWidth    int
	contentWidth int   // width inside the box (excluding borders)
	colWidths    []int // [Name, Status, Engine, Port]
}

// NewModel creates a new selector model
func NewModel(instances []types.Instance) Model {
	m := Model{
		instances: instances,
		filtered:  instances,
		termWidth: 80,
	}
	m.calculateWidths()
	return m
}

// calculateWidths gives the name column whatever the fixed columns leave
func (m *Model) calculateWidths() {
	m.contentWidth = m.termWidth - 2
	if m.contentWidth < minWidth {
		m.contentWidth = minWidth
	}
	if m.contentWidth > maxWidth {
		m.contentWidth = maxWidth
	}

	// cursor(3) + Name + 2 + Status + 2 + Engine + 2 + Port
	fixedWidth := 3 + 2 + colWidthStatus + 2 + colWidthEngine + 2 + colWidthPort
	nameWidth := m.contentWidth - fixedWidth
	if nameWidth < 10 {
		nameWidth = 10
	}

	m.colWidths = []int{nameWidth, colWidthStatus, colWidthEngine, colWidthPort}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.calculateWidths()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			m.cancelled = true
			return m, tea.Quit

		case tea.KeyEnter:
			if len(m.filtered) > 0 {
				selected := m.filtered[m.cursor]
				m.selected = &selected
				m.quitting = true
				return m, tea.Quit
			}

		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}

		case tea.KeyDown:
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				if m.cursor >= m.offset+listHeight {
					m.offset = m.cursor - listHeight + 1
				}
			}

		case tea.KeyBackspace:
			if len(m.search) > 0 {
				r := []rune(m.search)
				m.search = string(r[:len(r)-1])
				m.filter()
			}

		case tea.KeyRunes:
			m.search += string(msg.Runes)
			m.filter()
		}
	}

	return m, nil
}

// filter narrows the list to names or engines containing the query
func (m *Model) filter() {
	if m.search == "" {
		m.filtered = m.instances
	} else {
		query := strings.ToLower(m.search)
		m.filtered = nil
		for _, inst := range m.instances {
			if strings.Contains(strings.ToLower(inst.Name), query) ||
				strings.Contains(string(inst.Engine), query) {
				m.filtered = append(m.filtered, inst)
			}
		}
	}

	if m.cursor >= len(m.filtered) {
		m.cursor = max(len(m.filtered)-1, 0)
	}
	m.offset = 0
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	w := m.contentWidth
	blank := strings.Repeat(" ", w)

	sb.WriteString(m.edge(TopLeft, TopRight))
	sb.WriteString(m.line(NameStyle.Render(padRight(" > "+m.search, w))))
	sb.WriteString(m.line(blank))

	end := min(m.offset+listHeight, len(m.filtered))
	for i := m.offset; i < end; i++ {
		sb.WriteString(m.line(m.renderRow(i)))
	}
	for i := max(end-m.offset, 0); i < listHeight; i++ {
		sb.WriteString(m.line(blank))
	}

	sb.WriteString(m.line(blank))
	sb.WriteString(m.edge(LeftT, RightT))
	sb.WriteString(m.renderDetails())
	sb.WriteString(m.edge(BottomLeft, BottomRight))
	sb.WriteString(m.renderStatusBar())

	return sb.String()
}

func (m Model) edge(left, right string) string {
	return BorderStyle.Render(left+strings.Repeat(Horizontal, m.contentWidth)+right) + "\n"
}

func (m Model) line(content string) string {
	return BorderStyle.Render(Vertical) + content + BorderStyle.Render(Vertical) + "\n"
}

func (m Model) renderRow(idx int) string {
	inst := m.filtered[idx]

	prefix := "   "
	if idx == m.cursor {
		prefix = " > "
	}

	status := padRight(statusIndicator(inst.Status)+" "+string(inst.Status), m.colWidths[1])
	row := prefix +
		NameStyle.Render(padRight(inst.Name, m.colWidths[0])) + "  " +
		StatusStyle(inst.Status).Render(status) + "  " +
		EngineStyle.Render(padRight(engineLabel(inst), m.colWidths[2])) + "  " +
		PortStyle.Render(padRight(portLabel(inst.HostPort), m.colWidths[3]))

	plain := 3 + m.colWidths[0] + 2 + m.colWidths[1] + 2 + m.colWidths[2] + 2 + m.colWidths[3]
	if plain < m.contentWidth {
		row += strings.Repeat(" ", m.contentWidth-plain)
	}
	return row
}

func (m Model) renderDetails() string {
	var sb strings.Builder
	w := m.contentWidth

	sb.WriteString(m.line(HeaderStyle.Render(padRight(" Container Details", w))))
	sb.WriteString(m.line(MutedStyle.Render(padRight(" "+strings.Repeat(Horizontal, 20), w))))

	if len(m.filtered) == 0 {
		sb.WriteString(m.line(MutedStyle.Render(padRight(" No containers found", w))))
		for i := 0; i < 5; i++ {
			sb.WriteString(m.line(strings.Repeat(" ", w)))
		}
		return sb.String()
	}

	inst := m.filtered[m.cursor]
	managed := "no (not created by aske)"
	if inst.Managed {
		managed = "yes"
	}

	for _, d := range []Detail{
		{"Name:", inst.Name, NameStyle},
		{"Engine:", engineLabel(inst), EngineStyle},
		{"Status:", string(inst.Status), StatusStyle(inst.Status)},
		{"Host port:", portLabel(inst.HostPort), PortStyle},
		{"Service:", formatOptional(inst.Service), ServiceStyle(inst.Service)},
		{"Managed:", managed, MutedStyle},
	} {
		value := d.Value
		maxValue := w - 1 - detailLabelWidth
		if runewidth.StringWidth(value) > maxValue {
			value = runewidth.Truncate(value, maxValue, "...")
		}
		plain := 1 + detailLabelWidth + runewidth.StringWidth(value)

		content := MutedStyle.Render(" "+padRight(d.Label, detailLabelWidth)) + d.Style.Render(value)
		if plain < w {
			content += strings.Repeat(" ", w-plain)
		}
		sb.WriteString(m.line(content))
	}

	return sb.String()
}

func (m Model) renderStatusBar() string {
	w := m.contentWidth + 2

	count := fmt.Sprintf("  %d/%d containers", len(m.filtered), len(m.instances))
	hints := "[Enter:select] [Esc:cancel]"

	padding := w - runewidth.StringWidth(count) - runewidth.StringWidth(hints)
	if padding < 1 {
		padding = 1
	}
	return count + strings.Repeat(" ", padding) + HintStyle.Render(hints) + "\n"
}

// Selected returns the chosen instance, or nil
func (m Model) Selected() *types.Instance {
	return m.selected
}

// Cancelled reports whether the user left without choosing
func (m Model) Cancelled() bool {
	return m.cancelled
}

// SelectInstance displays an interactive selector for container instances
// and returns the chosen one
func SelectInstance(instances []types.Instance) (*types.Instance, error) {
	if len(instances) == 0 {
		return nil, fmt.Errorf("no containers available")
	}

	p := tea.NewProgram(NewModel(instances))

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("error running selector: %w", err)
	}

	result := finalModel.(Model)
	if result.cancelled || result.selected == nil {
		return nil, ErrSelectionCancelled
	}

	return result.selected, nil
}
