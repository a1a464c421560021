// SPDX-License-Identifier: MPL-2.0

package member

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultTimeout bounds a directory fetch when no timeout is configured.
	DefaultTimeout = 8 * time.Second

	// maxFeedBytes caps the size of a directory feed.
	maxFeedBytes = 8 << 20
)

type (
	// DirectoryClient fetches the member directory feed over HTTP GET.
	// Requests are never retried.
	DirectoryClient struct {
		feedURL       string
		httpClient    *http.Client
		timeout       time.Duration
		minNameLength int
		logger        *log.Logger
	}

	// DirectoryOption configures a DirectoryClient.
	DirectoryOption func(*DirectoryClient)
)

// WithTimeout bounds each fetch. Non-positive values are ignored.
func WithTimeout(d time.Duration) DirectoryOption {
	return func(c *DirectoryClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) DirectoryOption {
	return func(c *DirectoryClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMinNameLength overrides MinNameLength for login queries.
func WithMinNameLength(n int) DirectoryOption {
	return func(c *DirectoryClient) {
		if n > 0 {
			c.minNameLength = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) DirectoryOption {
	return func(c *DirectoryClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewDirectoryClient creates a client for the feed at feedURL.
func NewDirectoryClient(feedURL string, opts ...DirectoryOption) *DirectoryClient {
	c := &DirectoryClient{
		feedURL:       feedURL,
		httpClient:    http.DefaultClient,
		timeout:       DefaultTimeout,
		minNameLength: MinNameLength,
		logger:        log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FeedURL returns the directory location.
func (c *DirectoryClient) FeedURL() string { return c.feedURL }

// Fetch downloads the raw feed. Every failure wraps ErrDirectoryUnavailable.
func (c *DirectoryClient) Fetch(ctx context.Context) (string, error) {
	if c.feedURL == "" {
		return "", fmt.Errorf("%w: no feed url configured", ErrDirectoryUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: unexpected status %d", ErrDirectoryUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}
	return string(body), nil
}

// Login validates q, fetches the directory and returns the matching member.
// A bad query returns a *types.ValidationError before any request is made.
// No match and an unavailable directory both return ErrMemberNotFound; the
// latter also wraps the fetch error.
func (c *DirectoryClient) Login(ctx context.Context, q Query) (Member, error) {
	if err := q.validate(c.minNameLength); err != nil {
		return Member{}, err
	}

	raw, err := c.Fetch(ctx)
	if err != nil {
		c.logger.Warn("member directory fetch failed", "url", c.feedURL, "err", err)
		return Member{}, fmt.Errorf("%w: %w", ErrMemberNotFound, err)
	}

	members := ParseDirectory(raw)
	c.logger.Debug("member directory parsed", "members", len(members))

	m, ok := FindByQuery(members, q)
	if !ok {
		return Member{}, ErrMemberNotFound
	}
	return m, nil
}

// IsUnavailable reports whether err came from a failed directory fetch.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrDirectoryUnavailable)
}
