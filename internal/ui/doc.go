// Package ui implements the interactive dealership menu using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [MenuView] : Browse the entity kinds kept by the store
//  2. [ListingView] : Display the selected kind as a styled table
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Listings are loaded by the [Entry] callbacks in a tea.Cmd, so slow stores never block rendering.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
