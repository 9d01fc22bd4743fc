package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title   lipgloss.Style
	status  lipgloss.Style
	err     lipgloss.Style
	help    lipgloss.Style
	listing lipgloss.Style
}

// NewPalette builds the stylesheet from title, status, error and muted colors.
func NewPalette(t, s, e, m string) *Palette {
	return &Palette{
		title:   NewBold(t).MarginBottom(1),
		status:  NewStyle(s),
		err:     NewBold(e),
		help:    NewEm(m),
		listing: lipgloss.NewStyle().MarginLeft(2),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
