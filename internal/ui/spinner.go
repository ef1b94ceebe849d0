package ui

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Progress shows a spinner while a long-running step executes
type Progress struct {
	s *spinner.Spinner
}

// StartProgress starts a spinner on w with the given message
func StartProgress(w io.Writer, message string) *Progress {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	s.Start()
	return &Progress{s: s}
}

// Stop stops the spinner and prints final in its place
func (p *Progress) Stop(final string) {
	if final != "" {
		p.s.FinalMSG = final + "\n"
	}
	p.s.Stop()
}
