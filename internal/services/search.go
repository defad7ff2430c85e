package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"mtg-card-searcher/internal/logger"
	"mtg-card-searcher/internal/models"
)

// ErrSearchFailed wraps every transport, status or decode failure of a search
var ErrSearchFailed = errors.New("search failed")

// maxSearchBody bounds the JSON we are willing to decode
const maxSearchBody = 8 << 20

// SearchService looks up cards by name and returns their image references
type SearchService struct {
	client    *http.Client
	searchURL string
	userAgent string
	logger    logger.Logger
	stats     statsRecorder
}

// NewSearchService creates a search client for the given endpoint
func NewSearchService(client *http.Client, searchURL, userAgent string, log logger.Logger) *SearchService {
	return &SearchService{
		client:    client,
		searchURL: searchURL,
		userAgent: userAgent,
		logger:    log,
	}
}

// Search queries the endpoint with the name parameter and returns the image
// URL of every matching card that has one, in server order. An empty slice
// means no card matched.
func (s *SearchService) Search(ctx context.Context, query string) ([]string, error) {
	q, err := models.NormalizeQuery(query)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	urls, err := s.search(ctx, q)
	s.stats.record(started, err)

	if err != nil {
		s.logger.Error("SearchService", err, map[string]interface{}{
			"query": q,
		})
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	s.logger.Debug("SearchService", "search completed", map[string]interface{}{
		"query":    q,
		"results":  len(urls),
		"duration": time.Since(started).String(),
	})
	return urls, nil
}

func (s *SearchService) search(ctx context.Context, query string) ([]string, error) {
	endpoint, err := s.buildURL(query)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("SearchService", "requesting cards", map[string]interface{}{
		"url": endpoint,
	})

	body, err := getBody(ctx, s.client, endpoint, map[string]string{
		"Accept":     "application/json",
		"User-Agent": s.userAgent,
	}, maxSearchBody)
	if err != nil {
		return nil, err
	}

	var resp models.SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return resp.ImageURLs(), nil
}

func (s *SearchService) buildURL(query string) (string, error) {
	u, err := url.Parse(s.searchURL)
	if err != nil {
		return "", fmt.Errorf("invalid search URL: %w", err)
	}
	params := u.Query()
	params.Set("name", query)
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// GetStats returns request statistics
func (s *SearchService) GetStats() RequestStats {
	return s.stats.snapshot()
}
