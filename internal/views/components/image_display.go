package components

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

const (
	// Card artwork is 5:7
	ImageAreaWidth  = 396
	ImageAreaHeight = 553
)

// ImageDisplay shows the current card image, or a blank placeholder
type ImageDisplay struct {
	container   *fyne.Container
	cardImage   *canvas.Image
	placeholder image.Image
	hasImage    bool
}

// NewImageDisplay creates a new image display component
func NewImageDisplay() *ImageDisplay {
	display := &ImageDisplay{}
	display.createComponents()
	display.setupLayout()
	return display
}

func (id *ImageDisplay) createComponents() {
	id.placeholder = createPlaceholderImage(ImageAreaWidth, ImageAreaHeight)

	id.cardImage = canvas.NewImageFromImage(id.placeholder)
	id.cardImage.FillMode = canvas.ImageFillContain
	id.cardImage.ScaleMode = canvas.ImageScaleSmooth
	id.cardImage.SetMinSize(fyne.NewSize(ImageAreaWidth/2, ImageAreaHeight/2))
}

// createPlaceholderImage draws an empty frame the size of the image area
func createPlaceholderImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	background := color.RGBA{R: 240, G: 240, B: 240, A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, background)
		}
	}

	borderColor := color.RGBA{R: 0, G: 0, B: 0, A: 255}
	for x := 0; x < width; x++ {
		img.Set(x, 0, borderColor)
		img.Set(x, height-1, borderColor)
	}
	for y := 0; y < height; y++ {
		img.Set(0, y, borderColor)
		img.Set(width-1, y, borderColor)
	}

	return img
}

func (id *ImageDisplay) setupLayout() {
	background := canvas.NewRectangle(color.RGBA{R: 252, G: 252, B: 252, A: 255})
	id.container = container.NewStack(background, id.cardImage)
}

// SetImage replaces the displayed image; nil restores the placeholder
func (id *ImageDisplay) SetImage(img image.Image) {
	if img != nil {
		id.cardImage.Image = img
		id.hasImage = true
	} else {
		id.cardImage.Image = id.placeholder
		id.hasImage = false
	}
	id.cardImage.Refresh()
}

// HasImage returns true if a card image is shown
func (id *ImageDisplay) HasImage() bool {
	return id.hasImage
}

// Image returns what is currently drawn
func (id *ImageDisplay) Image() image.Image {
	return id.cardImage.Image
}

// GetContainer returns the main container
func (id *ImageDisplay) GetContainer() *fyne.Container {
	return id.container
}
