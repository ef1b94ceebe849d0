package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks yes/no questions on a terminal
type Prompter struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool // False means every question is answered "no"
}

// NewPrompter creates a prompter on stdin/stderr. It is interactive only
// when stdin is a terminal.
func NewPrompter() *Prompter {
	return &Prompter{
		In:          os.Stdin,
		Out:         os.Stderr,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// Confirm prints question and reads a y/N answer. Anything but "y" or "yes"
// declines, as does a non-interactive session.
func (p *Prompter) Confirm(question string) bool {
	if !p.Interactive {
		fmt.Fprintf(p.Out, "%s %s\n", question, MutedStyle.Render("(not a terminal, use --yes to confirm)"))
		return false
	}

	fmt.Fprintf(p.Out, "%s %s ", question, HintStyle.Render("[y/N]"))

	answer, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(p.Out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
