package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// FailureKind classifies why a snapshot fetch failed.
type FailureKind int

const (
	TransportFailure FailureKind = iota + 1
	ParseFailure
)

func (k FailureKind) String() string {
	switch k {
	case TransportFailure:
		return "transport failure"
	case ParseFailure:
		return "parse failure"
	default:
		return "unknown failure"
	}
}

// FetchError is the single error type returned by FetchSnapshot.
type FetchError struct {
	Kind FailureKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch snapshot: %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StatusError represents a non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("snapshot resource returned %d: %s", e.StatusCode, e.Message)
}

// nextStamp returns the current epoch millis, bumped past the previous stamp
// so consecutive requests never reuse a value.
func (c *Client) nextStamp() int64 {
	now := c.clock.Now().UnixMilli()

	c.stampMu.Lock()
	defer c.stampMu.Unlock()

	if now <= c.lastStamp {
		now = c.lastStamp + 1
	}
	c.lastStamp = now
	return now
}

// requestURL appends t=<stamp> to the resource URL, keeping existing query parameters.
func (c *Client) requestURL(stamp int64) (string, error) {
	u, err := url.Parse(c.resourceURL)
	if err != nil {
		return "", fmt.Errorf("parse resource url: %w", err)
	}

	query := u.Query()
	query.Set("t", strconv.FormatInt(stamp, 10))
	u.RawQuery = query.Encode()

	return u.String(), nil
}

// doGet performs a GET and returns the body of a 2xx response.
func (c *Client) doGet(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}
