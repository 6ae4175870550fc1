// Package upstream is the HTTP client for the relationship query API.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Harsh2563/flagright-relgraph/internal/domain"
)

// ErrUnavailable wraps transport failures and 5xx responses.
var ErrUnavailable = errors.New("relationship API unavailable")

// maxErrorBody caps how much of an error response body is kept for the message.
const maxErrorBody = 512

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  float64
	Burst      int
	HTTPClient *http.Client
}

// Client fetches relationship envelopes from the relationship query API.
type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
}

// New validates opts and builds a Client. A zero RateLimit disables limiting.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse upstream base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("upstream base url %q must be absolute", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Client{base: base, http: httpClient, limiter: limiter}, nil
}

// UserRelationships fetches GET /relationships/user/{id}. The API answers with
// a single object or, for multi-anchor queries, a list; both are returned as
// a list.
func (c *Client) UserRelationships(ctx context.Context, userID string) ([]domain.UserRelationshipResponse, error) {
	var out domain.UserRelationshipResponses
	if err := c.get(ctx, "relationships/user/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, fmt.Errorf("user relationships %s: %w", userID, err)
	}
	return out, nil
}

// TransactionRelationships fetches GET /relationships/transaction/{id}.
func (c *Client) TransactionRelationships(ctx context.Context, txID string) (domain.TransactionRelationshipResponse, error) {
	var out domain.TransactionRelationshipResponse
	if err := c.get(ctx, "relationships/transaction/"+url.PathEscape(txID), nil, &out); err != nil {
		return domain.TransactionRelationshipResponse{}, fmt.Errorf("transaction relationships %s: %w", txID, err)
	}
	return out, nil
}

// ShortestPath fetches GET /relationships/shortest-path.
func (c *Client) ShortestPath(ctx context.Context, sourceUserID, targetUserID string) (domain.ShortestPathResponse, error) {
	query := url.Values{}
	query.Set("sourceUserId", sourceUserID)
	query.Set("targetUserId", targetUserID)

	var out domain.ShortestPathResponse
	if err := c.get(ctx, "relationships/shortest-path", query, &out); err != nil {
		return domain.ShortestPathResponse{}, fmt.Errorf("shortest path %s -> %s: %w", sourceUserID, targetUserID, err)
	}
	return out, nil
}

// Ping checks that the API answers at all; any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.base.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.base.JoinPath(path)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, readMessage(resp.Body))
	case resp.StatusCode >= 300:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, readMessage(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readMessage extracts the "message" or "error" field of a JSON error body,
// falling back to the raw text.
func readMessage(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(body))
}
