package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rickgao/stream-leaderboard/internal/model"
)

var errNullDocument = errors.New("snapshot document is null")

// FetchSnapshot retrieves and decodes the latest snapshot.
func (c *Client) FetchSnapshot(ctx context.Context) (*model.Snapshot, error) {
	fullURL, err := c.requestURL(c.nextStamp())
	if err != nil {
		return nil, &FetchError{Kind: TransportFailure, URL: c.resourceURL, Err: err}
	}

	body, err := c.doGet(ctx, fullURL)
	if err != nil {
		return nil, &FetchError{Kind: TransportFailure, URL: fullURL, Err: err}
	}

	snapshot, err := decodeSnapshot(body)
	if err != nil {
		return nil, &FetchError{Kind: ParseFailure, URL: fullURL, Err: err}
	}

	c.logger.Debug("snapshot fetched",
		"url", fullURL,
		"status", snapshot.Status,
		"users", len(snapshot.Users),
	)

	return snapshot, nil
}

func decodeSnapshot(body []byte) (*model.Snapshot, error) {
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, errNullDocument
	}

	var snapshot model.Snapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}
