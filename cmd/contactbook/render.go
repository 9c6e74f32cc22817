package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// styles decorates CLI output. All styles are no-ops when stdout is not a terminal.
type styles struct {
	header lipgloss.Style
	name   lipgloss.Style
	today  lipgloss.Style
	muted  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	if !isTerminal(w) {
		plain := lipgloss.NewStyle()
		return styles{header: plain, name: plain, today: plain, muted: plain}
	}
	return styles{
		header: lipgloss.NewStyle().Bold(true).Underline(true),
		name:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		today:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		muted:  lipgloss.NewStyle().Faint(true),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
