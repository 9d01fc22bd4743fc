package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/carvy/internal/formatter"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgListingLoaded MsgKind = iota
)

type listingResult struct {
	listing formatter.Listing
	err     error
}

// listingLoadedMsg is the constructor for [MsgListingLoaded]
func listingLoadedMsg(listing formatter.Listing, err error) Msg {
	return Msg{kind: MsgListingLoaded, data: listingResult{listing, err}}
}
