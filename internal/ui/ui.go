package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/carvy/internal/formatter"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MenuView ViewState = iota
	ListingView
)

// Model represents the TUI application state.
type Model struct {
	view     ViewState
	menu     list.Model
	selected *Entry
	listing  formatter.Listing
	loading  bool
	err      error
	width    int
	height   int
	help     help.Model
	keys     keyMap
}

// NewModel creates the menu over entries, headed by title.
func NewModel(title string, entries []Entry) *Model {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{entry: e}
	}

	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = title
	menu.SetShowHelp(false)

	return &Model{
		view: MenuView,
		menu: menu,
		help: help.New(),
		keys: newKeyMap(),
	}
}

// State returns the view the model is currently showing.
func (m *Model) State() ViewState { return m.view }

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MenuView:
			return m.handleMenuKeys(msg)
		case ListingView:
			return m.handleListingKeys(msg)
		}

	case Msg:
		if msg.kind == MsgListingLoaded {
			result := msg.data.(listingResult)
			m.loading = false
			m.listing, m.err = result.listing, result.err
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case MenuView:
		return fmt.Sprintf("%s\n\n%s", m.menu.View(), m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit}))
	case ListingView:
		return m.renderListing()
	default:
		return ""
	}
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.menu.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.menu.SelectedItem().(entryItem); ok {
			entry := item.entry
			m.selected = &entry
			m.view = ListingView
			return m, m.load()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m *Model) handleListingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = MenuView
		m.selected = nil
		m.listing = formatter.Listing{}
		m.err = nil
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.load()
	}
	return m, nil
}

// load runs the selected entry's loader off the update loop.
func (m *Model) load() tea.Cmd {
	if m.selected == nil || m.selected.Load == nil {
		return nil
	}
	m.loading = true
	fn := m.selected.Load
	return func() tea.Msg {
		listing, err := fn()
		return listingLoadedMsg(listing, err)
	}
}

func (m *Model) renderListing() string {
	title := styles.title.Render(m.selected.Name)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.refresh, m.keys.quit})

	var body string
	switch {
	case m.loading:
		body = styles.status.Render("Loading...")
	case m.err != nil:
		body = styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	case m.listing.Len() == 0:
		body = styles.help.Render(fmt.Sprintf("No %s yet.", m.selected.Name))
	default:
		body = styles.listing.Render(formatter.ToTable(m.listing)) + "\n" +
			styles.status.Render(fmt.Sprintf("%d %s", m.listing.Len(), m.selected.Name))
	}

	return fmt.Sprintf("%s\n%s\n\n%s", title, body, helpView)
}
