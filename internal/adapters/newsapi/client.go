// Package newsapi implements the article-fetch collaborator against the
// NewsAPI v2 endpoints.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fortsentinel/dispatch/internal/domain/model"
)

const (
	defaultBaseURL  = "https://newsapi.org/v2"
	defaultPageSize = 10
	defaultTimeout  = 20 * time.Second
)

// Client is a thin, context-aware NewsAPI client. It produces a finite
// article batch per call; no pagination state crosses into the pipeline.
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
	now        func() time.Time
}

// NewClient builds a client for the given API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		pageSize:   defaultPageSize,
		httpClient: &http.Client{Timeout: defaultTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search fetches articles matching a query from the /everything endpoint.
func (c *Client) Search(ctx context.Context, query string) ([]model.Article, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", ErrBadRequest)
	}
	params := url.Values{
		"q":        {query},
		"language": {"en"},
		"sortBy":   {"relevancy"},
		"pageSize": {strconv.Itoa(c.pageSize)},
	}
	return c.fetch(ctx, "/everything", params)
}

// TopHeadlines fetches general headlines for a country, optionally narrowed
// to a category.
func (c *Client) TopHeadlines(ctx context.Context, country, category string) ([]model.Article, error) {
	if country == "" {
		country = "us"
	}
	params := url.Values{
		"country":  {country},
		"pageSize": {strconv.Itoa(c.pageSize)},
	}
	if category != "" {
		params.Set("category", category)
	}
	return c.fetch(ctx, "/top-headlines", params)
}

type apiResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Author      string `json:"author"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) ([]model.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: %s: %s", ErrUpstream, resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Status != "ok" {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, parsed.Message)
	}

	fetched := c.now()
	articles := make([]model.Article, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		body := a.Content
		if body == "" {
			body = a.Description
		}
		published, _ := time.Parse(time.RFC3339, a.PublishedAt)
		articles = append(articles, model.Article{
			URL:         a.URL,
			Title:       a.Title,
			BodyText:    body,
			SourceName:  a.Source.Name,
			Author:      a.Author,
			PublishedAt: published,
			FetchedAt:   fetched,
		})
	}
	return articles, nil
}
