package models

import (
	"image"
	"time"
)

// CardImage is a decoded card artwork ready for display
type CardImage struct {
	URL       string
	Image     image.Image
	Width     int
	Height    int
	Format    string
	ByteSize  int64
	FetchTime time.Duration
	Scaled    bool
}

// Card is one record returned by the search endpoint. Only the fields the
// client reads are decoded.
type Card struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// SearchResponse is the body of a card search
type SearchResponse struct {
	Cards []Card `json:"cards"`
}

// ImageURLs returns the image reference of every card that has one, in
// response order. The result is never nil.
func (r SearchResponse) ImageURLs() []string {
	urls := make([]string, 0, len(r.Cards))
	for _, card := range r.Cards {
		if card.ImageURL == "" {
			continue
		}
		urls = append(urls, card.ImageURL)
	}
	return urls
}
