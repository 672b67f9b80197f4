package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"boxscore-fetcher/config"
)

// BoxScoreFetcher fetches the box score of one game.
type BoxScoreFetcher interface {
	Fetch(ctx context.Context, gameID string) Result
}

// Client posts box-score requests to the configured endpoint.
type Client struct {
	url        string
	apiKey     string
	headers    map[string]string
	verifyJSON bool
	http       *http.Client
}

// NewClient builds a Client from the client and fetcher settings.
func NewClient(cfg *config.Config) *Client {
	var transport http.RoundTripper = &http.Transport{Proxy: http.ProxyFromEnvironment}
	if cfg.Client.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.Client.HTTPProxy)
		if err != nil {
			log.Warn().Err(err).Str("http_proxy", cfg.Client.HTTPProxy).Msg("invalid proxy URL; requests will not use a proxy")
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	return &Client{
		url:        cfg.Client.URL(),
		apiKey:     cfg.Client.APIKey,
		headers:    cfg.Client.Headers,
		verifyJSON: cfg.Fetcher.OutputFormat == config.FormatJSON,
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Client.Timeout,
		},
	}
}

// URL returns the endpoint the client posts to.
func (c *Client) URL() string {
	return c.url
}

// Fetch posts one game id and classifies the response.
func (c *Client) Fetch(ctx context.Context, gameID string) Result {
	jsonBody, err := json.Marshal(BoxScoreRequest{GameID: gameID, APIKey: c.apiKey})
	if err != nil {
		return fatal(gameID, 0, fmt.Errorf("failed to marshal request payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonBody))
	if err != nil {
		return fatal(gameID, 0, fmt.Errorf("failed to create request: %w", err))
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fatal(gameID, 0, fmt.Errorf("request cancelled: %w", ctxErr))
		}
		return retryable(gameID, 0, fmt.Errorf("http request failed: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fatal(gameID, resp.StatusCode, fmt.Errorf("credentials rejected: status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return retryable(gameID, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fatal(gameID, resp.StatusCode, fmt.Errorf("request cancelled: %w", errors.Join(ctxErr, err)))
		}
		return retryable(gameID, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err))
	}
	if c.verifyJSON && !json.Valid(body) {
		return retryable(gameID, resp.StatusCode, errors.New("response body is not valid JSON"))
	}
	return success(gameID, resp.StatusCode, body)
}
