package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/caraveo/aske/pkg/types"
)

// Box drawing characters
const (
	TopLeft     = "╭"
	TopRight    = "╮"
	BottomLeft  = "╰"
	BottomRight = "╯"
	Horizontal  = "─"
	Vertical    = "│"
	LeftT       = "├"
	RightT      = "┤"
	TopT        = "┬"
	BottomT     = "┴"
	Cross       = "┼"
)

// Color palette
const (
	ColorBorder  = "240"
	ColorHeader  = "252"
	ColorName    = "81"
	ColorEngine  = "214"
	ColorPort    = "252"
	ColorRunning = "82"
	ColorStopped = "245"
	ColorBroken  = "203"
	ColorPending = "214"
	ColorMuted   = "240"
	ColorHint    = "245"
)

// Shared styles
var (
	BorderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBorder))
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorHeader))
	NameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorName))
	EngineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorEngine))
	PortStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPort))
	RunningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRunning))
	StoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorStopped))
	BrokenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBroken))
	PendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPending))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted))
	HintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHint))
)

// padRight pads a string to the specified display width using runewidth
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "...")
	}
	return s + strings.Repeat(" ", width-sw)
}

// statusIndicator returns the glyph shown before an instance status
func statusIndicator(status types.InstanceStatus) string {
	switch status {
	case types.InstanceRunning:
		return "●"
	case types.InstanceBroken:
		return "✗"
	default:
		return "○"
	}
}

// StatusStyle returns the style for an instance status
func StatusStyle(status types.InstanceStatus) lipgloss.Style {
	switch status {
	case types.InstanceRunning:
		return RunningStyle
	case types.InstanceBroken:
		return BrokenStyle
	case types.InstanceUnknown:
		return PendingStyle
	default:
		return StoppedStyle
	}
}

// ServiceStyle returns the style for a systemd service state
func ServiceStyle(service string) lipgloss.Style {
	switch service {
	case "active":
		return RunningStyle
	case "failed":
		return BrokenStyle
	case "activating", "deactivating", "reloading":
		return PendingStyle
	default:
		return StoppedStyle
	}
}

func formatOptional(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func engineLabel(inst types.Instance) string {
	if inst.Engine == "" {
		return "-"
	}
	return inst.Engine.DisplayName()
}

func portLabel(port int) string {
	if port == 0 {
		return "-"
	}
	return strconv.Itoa(port)
}
