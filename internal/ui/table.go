package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/caraveo/aske/pkg/types"
)

// Column widths
var columnWidths = []int{24, 12, 12, 7, 12, 7}

// PrintInstanceTable prints container instances in a styled box table
func PrintInstanceTable(w io.Writer, instances []types.Instance) {
	fmt.Fprint(w, RenderInstanceTable(instances))
	fmt.Fprintln(w, summary(instances))
}

// RenderInstanceTable renders container instances as a box table
func RenderInstanceTable(instances []types.Instance) string {
	headers := []string{"Name", "Engine", "Status", "Port", "Service", "Managed"}

	var sb strings.Builder
	sb.WriteString(borderRow(TopLeft, TopT, TopRight))

	sb.WriteString(BorderStyle.Render(Vertical))
	for i, h := range headers {
		sb.WriteString(HeaderStyle.Render(cell(h, columnWidths[i])))
		sb.WriteString(BorderStyle.Render(Vertical))
	}
	sb.WriteString("\n")

	sb.WriteString(borderRow(LeftT, Cross, RightT))

	for _, inst := range instances {
		managed := "no"
		if inst.Managed {
			managed = "yes"
		}

		cells := []struct {
			text  string
			style lipgloss.Style
		}{
			{inst.Name, NameStyle},
			{engineLabel(inst), EngineStyle},
			{statusIndicator(inst.Status) + " " + string(inst.Status), StatusStyle(inst.Status)},
			{portLabel(inst.HostPort), PortStyle},
			{formatOptional(inst.Service), ServiceStyle(inst.Service)},
			{managed, MutedStyle},
		}

		sb.WriteString(BorderStyle.Render(Vertical))
		for i, c := range cells {
			sb.WriteString(c.style.Render(cell(c.text, columnWidths[i])))
			sb.WriteString(BorderStyle.Render(Vertical))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(borderRow(BottomLeft, BottomT, BottomRight))
	return sb.String()
}

func borderRow(left, mid, right string) string {
	var sb strings.Builder
	sb.WriteString(BorderStyle.Render(left))
	for i, w := range columnWidths {
		sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, w+2)))
		if i < len(columnWidths)-1 {
			sb.WriteString(BorderStyle.Render(mid))
		}
	}
	sb.WriteString(BorderStyle.Render(right))
	sb.WriteString("\n")
	return sb.String()
}

func cell(s string, width int) string {
	return " " + padRight(s, width) + " "
}

func summary(instances []types.Instance) string {
	counts := make(map[types.InstanceStatus]int)
	for _, inst := range instances {
		counts[inst.Status]++
	}

	var parts []string
	for _, status := range []types.InstanceStatus{
		types.InstanceRunning, types.InstanceStopped, types.InstanceBroken, types.InstanceUnknown,
	} {
		if c := counts[status]; c > 0 {
			parts = append(parts, StatusStyle(status).Render(fmt.Sprintf("%d %s", c, strings.ToLower(string(status)))))
		}
	}

	noun := "containers"
	if len(instances) == 1 {
		noun = "container"
	}
	s := fmt.Sprintf("  %d %s", len(instances), noun)
	if len(parts) > 0 {
		s += " (" + strings.Join(parts, ", ") + ")"
	}
	return s
}

// PrintEngineTable prints the supported engines
func PrintEngineTable(w io.Writer, options []EngineOption) {
	fmt.Fprintln(w, HeaderStyle.Render(fmt.Sprintf("%-12s %-12s %-8s %s", "ENGINE", "NAME", "PORT", "SERVICE")))
	for _, opt := range options {
		fmt.Fprintf(w, "%s %s %s %s\n",
			EngineStyle.Render(padRight(string(opt.Engine), 12)),
			NameStyle.Render(padRight(opt.Engine.DisplayName(), 12)),
			PortStyle.Render(padRight(strconv.Itoa(opt.Port), 8)),
			MutedStyle.Render(opt.Service))
	}
}
