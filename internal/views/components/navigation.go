package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// NavigationBar holds the Previous card / Next card buttons
type NavigationBar struct {
	container      *fyne.Container
	previousButton *widget.Button
	nextButton     *widget.Button

	previousHandler func()
	nextHandler     func()
}

// NewNavigationBar creates the navigation bar with both buttons disabled
func NewNavigationBar() *NavigationBar {
	nb := &NavigationBar{}

	nb.previousButton = widget.NewButton("Previous card", func() {
		if nb.previousHandler != nil {
			nb.previousHandler()
		}
	})
	nb.nextButton = widget.NewButton("Next card", func() {
		if nb.nextHandler != nil {
			nb.nextHandler()
		}
	})
	nb.SetEnabled(false)

	nb.container = container.NewGridWithColumns(2, nb.previousButton, nb.nextButton)
	return nb
}

func (nb *NavigationBar) SetPreviousHandler(handler func()) {
	nb.previousHandler = handler
}

func (nb *NavigationBar) SetNextHandler(handler func()) {
	nb.nextHandler = handler
}

// SetEnabled enables or disables both buttons together
func (nb *NavigationBar) SetEnabled(enabled bool) {
	if enabled {
		nb.previousButton.Enable()
		nb.nextButton.Enable()
		return
	}
	nb.previousButton.Disable()
	nb.nextButton.Disable()
}

// Enabled reports whether the buttons accept taps
func (nb *NavigationBar) Enabled() bool {
	return !nb.nextButton.Disabled()
}

// GetContainer returns the navigation bar container
func (nb *NavigationBar) GetContainer() *fyne.Container {
	return nb.container
}
