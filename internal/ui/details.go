package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const detailLabelWidth = 12

// Detail is one labelled line of a details block
type Detail struct {
	Label string
	Value string
	Style lipgloss.Style
}

// PrintDetails prints a titled block of labelled values
func PrintDetails(w io.Writer, title string, details []Detail) {
	fmt.Fprintln(w, HeaderStyle.Render(title))
	fmt.Fprintln(w, MutedStyle.Render(strings.Repeat(Horizontal, runewidth.StringWidth(title)+8)))
	for _, d := range details {
		fmt.Fprintf(w, "%s%s\n", MutedStyle.Render(padRight(d.Label, detailLabelWidth)), d.Style.Render(formatOptional(d.Value)))
	}
}

// PrintHint prints muted multi-line guidance, indented
func PrintHint(w io.Writer, text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintln(w, HintStyle.Render("  "+line))
	}
}
