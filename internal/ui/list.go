package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/carvy/internal/formatter"
)

var _ list.Item = entryItem{}

// Entry is one menu choice. Load is called each time the entry is opened.
type Entry struct {
	Name    string
	Summary string
	Load    func() (formatter.Listing, error)
}

// entryItem wraps [Entry] to implement [list.Item].
type entryItem struct {
	entry Entry
}

func (i entryItem) FilterValue() string { return i.entry.Name }
func (i entryItem) Title() string       { return i.entry.Name }
func (i entryItem) Description() string { return i.entry.Summary }
