package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"time"

	"mtg-card-searcher/internal/logger"
	"mtg-card-searcher/internal/models"

	"github.com/disintegration/imaging"
)

// ErrFetchFailed wraps every transport, status or decode failure of an image fetch
var ErrFetchFailed = errors.New("image fetch failed")

// ImageLimits bounds downloaded card images
type ImageLimits struct {
	MaxWidth  int
	MaxHeight int
	MaxBytes  int64
}

// ImageService downloads and decodes card artwork
type ImageService struct {
	client    *http.Client
	userAgent string
	limits    ImageLimits
	logger    logger.Logger
	stats     statsRecorder
}

// NewImageService creates a new image service
func NewImageService(client *http.Client, userAgent string, limits ImageLimits, log logger.Logger) *ImageService {
	return &ImageService{
		client:    client,
		userAgent: userAgent,
		limits:    limits,
		logger:    log,
	}
}

// Fetch downloads the image at url and decodes it. Images larger than the
// configured display size are scaled down preserving aspect ratio.
func (is *ImageService) Fetch(ctx context.Context, url string) (*models.CardImage, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty image URL", ErrFetchFailed)
	}

	started := time.Now()
	card, err := is.fetch(ctx, url)
	is.stats.record(started, err)

	if err != nil {
		is.logger.Error("ImageService", err, map[string]interface{}{
			"url": url,
		})
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	card.FetchTime = time.Since(started)
	is.logger.Debug("ImageService", "image loaded", map[string]interface{}{
		"url":      url,
		"width":    card.Width,
		"height":   card.Height,
		"format":   card.Format,
		"bytes":    card.ByteSize,
		"scaled":   card.Scaled,
		"duration": card.FetchTime.String(),
	})
	return card, nil
}

func (is *ImageService) fetch(ctx context.Context, url string) (*models.CardImage, error) {
	data, err := getBody(ctx, is.client, url, map[string]string{
		"User-Agent": is.userAgent,
	}, is.limits.MaxBytes)
	if err != nil {
		return nil, err
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	scaled := false
	bounds := img.Bounds()
	if bounds.Dx() > is.limits.MaxWidth || bounds.Dy() > is.limits.MaxHeight {
		img = imaging.Fit(img, is.limits.MaxWidth, is.limits.MaxHeight, imaging.Lanczos)
		bounds = img.Bounds()
		scaled = true
	}

	return &models.CardImage{
		URL:      url,
		Image:    img,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Format:   format,
		ByteSize: int64(len(data)),
		Scaled:   scaled,
	}, nil
}

// GetStats returns request statistics
func (is *ImageService) GetStats() RequestStats {
	return is.stats.snapshot()
}
