package plex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"plexbrowse/internal/metrics"
)

const (
	DefaultTimeout = 30 * time.Second
	tokenParam     = "X-Plex-Token"
)

// ErrUpstream matches every failure returned by Client.
var ErrUpstream = errors.New("plex upstream failure")

// Error describes a failed request to the Plex server. StatusCode is zero
// when no response was received.
type Error struct {
	Method     string
	Endpoint   string
	StatusCode int
	Status     string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("plex %s %s: %s", e.Method, e.Endpoint, e.Status)
	}
	return fmt.Sprintf("plex %s %s: %v", e.Method, e.Endpoint, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrUpstream
}

// Client issues token-authenticated GET requests against a Plex server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewClient(baseURL, token string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "plex").Logger(),
	}
}

// Get requests endpoint with query plus the auth token and decodes the JSON
// body into out. A nil out discards the body. Any transport failure, non-2xx
// status or undecodable body is returned as *Error.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values, out any) error {
	params := url.Values{}
	for k, v := range query {
		params[k] = append([]string(nil), v...)
	}
	params.Set(tokenParam, c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, http.NoBody)
	if err != nil {
		return &Error{Method: http.MethodGet, Endpoint: endpoint, Err: err}
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest("network", time.Since(start))
		c.logger.Debug().Err(redact(err)).Str("endpoint", endpoint).Msg("plex request failed")
		return &Error{Method: http.MethodGet, Endpoint: endpoint, Err: redact(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordUpstreamRequest("status", time.Since(start))
		c.logger.Debug().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Msg("plex request rejected")
		return &Error{
			Method:     http.MethodGet,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		metrics.RecordUpstreamRequest("ok", time.Since(start))
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordUpstreamRequest("decode", time.Since(start))
		return &Error{Method: http.MethodGet, Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", redact(err))}
	}

	metrics.RecordUpstreamRequest("ok", time.Since(start))
	c.logger.Debug().
		Str("endpoint", endpoint).
		Dur("duration", time.Since(start)).
		Msg("plex request")

	return nil
}

// Sections lists the library sections.
func (c *Client) Sections(ctx context.Context) (*MediaContainer, error) {
	return c.container(ctx, "/library/sections")
}

// SectionAll lists every item in a section.
func (c *Client) SectionAll(ctx context.Context, sectionID string) (*MediaContainer, error) {
	return c.container(ctx, "/library/sections/"+url.PathEscape(sectionID)+"/all")
}

// Children lists the children of a metadata item: seasons of a show or
// episodes of a season.
func (c *Client) Children(ctx context.Context, ratingKey string) (*MediaContainer, error) {
	return c.container(ctx, "/library/metadata/"+url.PathEscape(ratingKey)+"/children")
}

// RefreshSection asks the server to rescan a section, optionally limited to
// path. The response body is not used.
func (c *Client) RefreshSection(ctx context.Context, sectionID, path string) error {
	var query url.Values
	if path != "" {
		query = url.Values{"path": {path}}
	}
	return c.Get(ctx, "/library/sections/"+url.PathEscape(sectionID)+"/refresh", query, nil)
}

func (c *Client) container(ctx context.Context, endpoint string) (*MediaContainer, error) {
	var resp Response
	if err := c.Get(ctx, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.MediaContainer, nil
}

// redact strips the request URL, which carries the token, from transport
// errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
