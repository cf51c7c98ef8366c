// Package newsapi searches NewsAPI headlines for the global alert ticker.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/parade-weather-service/internal/domain"
	"github.com/couchcryptid/parade-weather-service/internal/observability"
)

const collaborator = "headlines"

// Client queries the NewsAPI /everything endpoint.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a NewsAPI client.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// Headlines returns up to limit article titles matching query, newest first.
func (c *Client) Headlines(ctx context.Context, query string, limit int) ([]string, error) {
	start := time.Now()
	titles, err := c.search(ctx, query, limit)
	c.metrics.ObserveUpstream(collaborator, start, err)
	return titles, err
}

func (c *Client) search(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{
		"q":        {query},
		"pageSize": {strconv.Itoa(limit)},
		"sortBy":   {"publishedAt"},
		"language": {"en"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &domain.UpstreamError{Collaborator: "newsapi", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if payload.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %q: %s: %s", payload.Status, payload.Code, payload.Message)
	}

	titles := make([]string, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		if a.Title == "" {
			continue
		}
		titles = append(titles, a.Title)
	}
	c.logger.Debug("newsapi headlines", "total_results", payload.TotalResults, "returned", len(titles))
	return titles, nil
}

// NewsAPI response types.

type response struct {
	Status       string    `json:"status"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	TotalResults int       `json:"totalResults"`
	Articles     []article `json:"articles"`
}

type article struct {
	Title string `json:"title"`
}
