package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const QueryPlaceholder = "Enter the name of the card"

// SearchBar holds the query entry and the Search button
type SearchBar struct {
	container    *fyne.Container
	queryEntry   *widget.Entry
	searchButton *widget.Button

	searchHandler func(string)
}

// NewSearchBar creates a new search bar component
func NewSearchBar() *SearchBar {
	sb := &SearchBar{}
	sb.createComponents()
	sb.buildLayout()
	sb.setupEventHandlers()
	return sb
}

func (sb *SearchBar) createComponents() {
	sb.queryEntry = widget.NewEntry()
	sb.queryEntry.SetPlaceHolder(QueryPlaceholder)

	sb.searchButton = widget.NewButton("Search", nil)
	sb.searchButton.Importance = widget.HighImportance
}

func (sb *SearchBar) buildLayout() {
	sb.container = container.NewBorder(nil, nil, nil, sb.searchButton, sb.queryEntry)
}

func (sb *SearchBar) setupEventHandlers() {
	sb.searchButton.OnTapped = sb.submit
	sb.queryEntry.OnSubmitted = func(string) {
		sb.submit()
	}
}

// submit forwards the current query unless input is disabled
func (sb *SearchBar) submit() {
	if sb.searchButton.Disabled() || sb.searchHandler == nil {
		return
	}
	sb.searchHandler(sb.queryEntry.Text)
}

// SetSearchHandler sets the handler receiving submitted queries
func (sb *SearchBar) SetSearchHandler(handler func(string)) {
	sb.searchHandler = handler
}

// SetEnabled enables or disables both the entry and the button
func (sb *SearchBar) SetEnabled(enabled bool) {
	if enabled {
		sb.queryEntry.Enable()
		sb.searchButton.Enable()
		return
	}
	sb.queryEntry.Disable()
	sb.searchButton.Disable()
}

// Enabled reports whether the search bar accepts input
func (sb *SearchBar) Enabled() bool {
	return !sb.searchButton.Disabled()
}

// Query returns the text currently in the entry
func (sb *SearchBar) Query() string {
	return sb.queryEntry.Text
}

// Entry exposes the query entry so the window can focus it
func (sb *SearchBar) Entry() *widget.Entry {
	return sb.queryEntry
}

// SearchButton exposes the Search button
func (sb *SearchBar) SearchButton() *widget.Button {
	return sb.searchButton
}

// GetContainer returns the search bar container
func (sb *SearchBar) GetContainer() *fyne.Container {
	return sb.container
}
