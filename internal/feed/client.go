// Package feed fetches the current goal node name from an HTTP endpoint that
// answers {"node": "<name>"}, and provides a small server for that endpoint.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

var (
	// ErrFeedUnavailable is returned on transport errors and non-2xx replies
	ErrFeedUnavailable = errors.New("goal feed unavailable")
	// ErrNoGoal is returned when the feed answers without a node name
	ErrNoGoal = errors.New("goal feed has no node")
)

// DefaultTimeout bounds one fetch
const DefaultTimeout = 5 * time.Second

// Goal is the feed's wire format
type Goal struct {
	Node string `json:"node"`
}

// Client reads the goal feed
type Client struct {
	url  string
	http *http.Client
}

// NewClient creates a client for url. A zero timeout uses DefaultTimeout.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// URL returns the feed address
func (c *Client) URL() string {
	return c.url
}

// Fetch returns the goal node name currently published by the feed
func (c *Client) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned %d", ErrFeedUnavailable, c.url, resp.StatusCode)
	}

	var goal Goal
	if err := json.NewDecoder(resp.Body).Decode(&goal); err != nil {
		return "", fmt.Errorf("decoding goal feed: %w", err)
	}

	node := strings.TrimSpace(goal.Node)
	if node == "" {
		return "", ErrNoGoal
	}
	return node, nil
}

// Fetcher is anything that can report the current goal
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Poller remembers the most recent goal reported by a Fetcher. A failed
// fetch keeps the previous goal.
type Poller struct {
	fetcher Fetcher
	logger  *slog.Logger

	mu      sync.RWMutex
	goal    string
	updated time.Time
}

// NewPoller creates a poller over fetcher
func NewPoller(fetcher Fetcher) *Poller {
	return &Poller{fetcher: fetcher, logger: slog.Default()}
}

// SetLogger sets the logger used for fetch failures
func (p *Poller) SetLogger(logger *slog.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// Poll fetches once and returns the goal now in effect. changed reports
// whether a fetch produced a different goal than before.
func (p *Poller) Poll(ctx context.Context) (goal string, changed bool, err error) {
	node, err := p.fetcher.Fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.logger.Warn("goal fetch failed", slog.String("error", err.Error()), slog.String("goal", p.goal))
		return p.goal, false, err
	}

	changed = node != p.goal
	p.goal = node
	p.updated = time.Now()
	if changed {
		p.logger.Info("goal changed", slog.String("goal", node))
	}
	return node, changed, nil
}

// Goal returns the last known goal and when it was fetched
func (p *Poller) Goal() (string, time.Time) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.goal, p.updated
}
