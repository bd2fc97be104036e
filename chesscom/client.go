// Package chesscom fetches player data from the chess.com published-data API
// (https://www.chess.com/news/view/published-data-api).
package chesscom

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chess-stats/models"

	"github.com/charmbracelet/log"
)

const DefaultBaseURL = "https://api.chess.com"

var (
	ErrNotFound    = errors.New("chesscom: player not found")
	ErrRateLimited = errors.New("chesscom: rate limited")
	ErrUnavailable = errors.New("chesscom: unexpected response")
)

// Client issues requests against the chess.com API. A Client holds no
// connections itself; every call to [Client.Player] uses its own
// [http.Client] which is released before the call returns.
type Client struct {
	BaseURL   string
	UserAgent string

	// Transport used for outgoing requests. Defaults to a clone of
	// [http.DefaultTransport].
	Transport http.RoundTripper
}

// New creates a new Client for the API at baseURL.
func New(baseURL string, userAgent string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), UserAgent: userAgent}
}

// Player fetches the stats and profile documents for the given username.
//
// The profile is only requested once the stats request has shown the account
// exists. Returned errors wrap [ErrNotFound], [ErrRateLimited] or
// [ErrUnavailable]; transport failures and ctx expiry are returned as-is.
func (c *Client) Player(ctx context.Context, username string) (*models.Player, error) {
	hc := c.httpClient()
	defer hc.CloseIdleConnections()

	name := url.PathEscape(strings.ToLower(username))

	statsCode, statsBody, err := c.get(ctx, hc, "/pub/player/"+name+"/stats")
	if err != nil {
		return nil, err
	}

	switch statsCode {
	case http.StatusNotFound, http.StatusMovedPermanently:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, username)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: stats", ErrRateLimited)
	}

	profileCode, profileBody, err := c.get(ctx, hc, "/pub/player/"+name)
	if err != nil {
		return nil, err
	}

	if profileCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: profile", ErrRateLimited)
	}
	if statsCode != http.StatusOK {
		return nil, fmt.Errorf("%w: stats returned %d", ErrUnavailable, statsCode)
	}

	switch profileCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusMovedPermanently:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, username)
	default:
		return nil, fmt.Errorf("%w: profile returned %d", ErrUnavailable, profileCode)
	}

	stats, err := models.ParseTree(statsBody)
	if err != nil {
		return nil, fmt.Errorf("%w: stats: %v", ErrUnavailable, err)
	}

	profile, err := models.ParseTree(profileBody)
	if err != nil {
		return nil, fmt.Errorf("%w: profile: %v", ErrUnavailable, err)
	}

	return &models.Player{Stats: stats, Profile: profile}, nil
}

// get performs a single GET request and returns the status code and body.
// Bodies of non-200 responses are discarded.
func (c *Client) get(ctx context.Context, hc *http.Client, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	res, err := hc.Do(req)
	if err != nil {
		log.Warn("Request failed", "path", path, "err", err)
		return 0, nil, err
	}
	defer res.Body.Close()

	log.Debug("Request complete", "path", path, "status", res.StatusCode, "took", time.Since(start).Round(time.Millisecond))

	if res.StatusCode != http.StatusOK {
		return res.StatusCode, nil, nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, nil, err
	}

	return res.StatusCode, body, nil
}

// httpClient creates the client for a single [Client.Player] call. Redirects
// are not followed: chess.com answers renamed or closed accounts with a 301.
func (c *Client) httpClient() *http.Client {
	tr := c.Transport
	if tr == nil {
		tr = http.DefaultTransport.(*http.Transport).Clone()
	}

	return &http.Client{
		Transport: tr,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
