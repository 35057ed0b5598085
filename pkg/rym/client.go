package rym

import (
	"context"
	"io"
	"net/http"
	"time"

	"rymexport/pkg/errors"
	"rymexport/pkg/logger"
)

// Client fetches listing pages with a fixed set of headers
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	logger     logger.Logger
}

// NewClient creates a new client. A zero timeout waits for the server indefinitely.
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent":      DefaultUserAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.5",
		},
		logger: log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetHeaders sets multiple headers at once
func (c *Client) SetHeaders(headers map[string]string) {
	for key, value := range headers {
		c.headers[key] = value
	}
}

// ForUser points the referer at the user's public profile
func (c *Client) ForUser(base, username string) {
	c.SetHeader("Referer", ProfileURL(base, username))
}

// FetchPage downloads one page and returns its body
func (c *Client) FetchPage(ctx context.Context, url string) (string, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp, url); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.WithError(err).WithField("url", url).Error("failed to read response body")
		return "", errors.Network(url, err)
	}

	return string(body), nil
}

// get performs a GET request with the configured headers
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Network(url, err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    url,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      url,
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return nil, errors.Network(url, err)
	}

	logger.LogRequest(c.logger, req.Method, url, resp.StatusCode, time.Since(start))
	return resp, nil
}

// checkResponseStatus turns any non-2xx status into an HTTP error
func (c *Client) checkResponseStatus(resp *http.Response, url string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return errors.HTTP(resp.StatusCode, url)
}
