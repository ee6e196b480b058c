// Package llm implements the optional prose-rewrite collaborator against an
// OpenAI-compatible chat-completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fortsentinel/dispatch/internal/domain/model"
	"github.com/fortsentinel/dispatch/internal/domain/route"
)

const defaultTimeout = 30 * time.Second

const systemPrompt = "You rewrite news articles as short spoken dispatches. " +
	"Keep every fact from the source. Write 2-4 paragraphs of plain prose " +
	"suitable for narration, matching the requested voice."

// Rewriter produces an optional rewrite for an article. The pipeline treats
// a failure or empty result as "no rewrite" and falls back to the templated
// body; it never blocks the batch on this collaborator.
type Rewriter interface {
	Rewrite(ctx context.Context, article model.Article, voice route.Voice) (string, error)
}

// Client calls an OpenAI-compatible chat endpoint.
type Client struct {
	endpoint   string
	apiModel   string
	apiKey     string
	httpClient *http.Client
}

var _ Rewriter = (*Client)(nil)

// NewClient builds a rewrite client. All three values are required; use a
// nil Rewriter in the pipeline to disable rewriting.
func NewClient(endpoint, apiModel, apiKey string) (*Client, error) {
	if endpoint == "" || apiModel == "" || apiKey == "" {
		return nil, ErrMisconfigured
	}
	return &Client{
		endpoint:   endpoint,
		apiModel:   apiModel,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Rewrite asks the model for a voice-framed rendition of the article.
func (c *Client) Rewrite(ctx context.Context, article model.Article, voice route.Voice) (string, error) {
	user := fmt.Sprintf("Voice: %s (%s)\nTitle: %s\nSource: %s\n\n%s",
		voice, route.NarrationFor(voice).Emotion, article.Title, article.SourceName, article.BodyText)

	body, err := json.Marshal(map[string]any{
		"model": c.apiModel,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal rewrite payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("rewrite request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: %s: %s", ErrUpstream, resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode rewrite response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrUpstream)
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
