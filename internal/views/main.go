package views

import (
	"fmt"

	"mtg-card-searcher/internal/models"
	"mtg-card-searcher/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
)

// MainView is the single application window: query bar on top, card image
// in the middle, navigation and status at the bottom
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	searchBar     *components.SearchBar
	imageDisplay  *components.ImageDisplay
	navigation    *components.NavigationBar
	statusBar     *components.StatusBar

	// Event handlers - connected to controller
	searchHandler   func(string)
	previousHandler func()
	nextHandler     func()
}

// NewMainView creates a new main view
func NewMainView(window fyne.Window) *MainView {
	view := &MainView{
		window: window,
	}

	view.initializeComponents()
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents() {
	mv.searchBar = components.NewSearchBar()
	mv.imageDisplay = components.NewImageDisplay()
	mv.navigation = components.NewNavigationBar()
	mv.statusBar = components.NewStatusBar()
}

func (mv *MainView) buildLayout() {
	bottomArea := container.NewVBox(
		mv.navigation.GetContainer(),
		mv.statusBar.GetContainer(),
	)

	mv.mainContainer = container.NewBorder(
		mv.searchBar.GetContainer(), // top
		bottomArea,                  // bottom
		nil,                         // left
		nil,                         // right
		mv.imageDisplay.GetContainer(),
	)

	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) setupEventHandlers() {
	mv.searchBar.SetSearchHandler(func(query string) {
		if mv.searchHandler != nil {
			mv.searchHandler(query)
		}
	})

	mv.navigation.SetPreviousHandler(mv.previous)
	mv.navigation.SetNextHandler(mv.next)

	// Arrow keys page through results while the entry is not focused
	mv.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyLeft:
			mv.previous()
		case fyne.KeyRight:
			mv.next()
		}
	})
}

func (mv *MainView) previous() {
	if mv.navigation.Enabled() && mv.previousHandler != nil {
		mv.previousHandler()
	}
}

func (mv *MainView) next() {
	if mv.navigation.Enabled() && mv.nextHandler != nil {
		mv.nextHandler()
	}
}

// SetSearchHandler sets the handler for submitted queries
func (mv *MainView) SetSearchHandler(handler func(string)) {
	mv.searchHandler = handler
}

// SetPreviousHandler sets the handler for the Previous card button
func (mv *MainView) SetPreviousHandler(handler func()) {
	mv.previousHandler = handler
}

// SetNextHandler sets the handler for the Next card button
func (mv *MainView) SetNextHandler(handler func()) {
	mv.nextHandler = handler
}

// UI update methods - called by controller on the UI thread

// SetInputEnabled enables or disables the query entry and Search button
func (mv *MainView) SetInputEnabled(enabled bool) {
	mv.searchBar.SetEnabled(enabled)
}

// SetNavigationEnabled enables or disables Previous/Next
func (mv *MainView) SetNavigationEnabled(enabled bool) {
	mv.navigation.SetEnabled(enabled)
}

// SetCardImage shows a decoded card, or clears the image area for nil
func (mv *MainView) SetCardImage(card *models.CardImage) {
	if card == nil || card.Image == nil {
		mv.imageDisplay.SetImage(nil)
		mv.statusBar.ClearImageInfo()
		return
	}
	mv.imageDisplay.SetImage(card.Image)
	mv.statusBar.SetImageInfo(card.Width, card.Height, card.Format)
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	mv.statusBar.SetStatus(status)
}

// ShowError displays an error dialog
func (mv *MainView) ShowError(title string, err error) {
	dialog.ShowError(fmt.Errorf("%s: %w", title, err), mv.window)
}

// ShowInfo displays an information dialog
func (mv *MainView) ShowInfo(title, message string) {
	dialog.ShowInformation(title, message, mv.window)
}

// FocusQuery puts keyboard focus on the query entry
func (mv *MainView) FocusQuery() {
	mv.window.Canvas().Focus(mv.searchBar.Entry())
}

// Show displays the view
func (mv *MainView) Show() {
	mv.window.Show()
}

// GetWindow returns the main window
func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}

// ViewState represents the current state of the view
type ViewState struct {
	InputEnabled      bool
	NavigationEnabled bool
	HasImage          bool
	StatusMessage     string
	ImageInfo         string
}

// GetViewState returns the current view state
func (mv *MainView) GetViewState() ViewState {
	return ViewState{
		InputEnabled:      mv.searchBar.Enabled(),
		NavigationEnabled: mv.navigation.Enabled(),
		HasImage:          mv.imageDisplay.HasImage(),
		StatusMessage:     mv.statusBar.GetStatus(),
		ImageInfo:         mv.statusBar.GetImageInfo(),
	}
}
