package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"filmmap/internal/models"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Config holds the provider settings for one geocoding client.
type Config struct {
	BaseURL    string
	UserAgent  string
	Language   string
	Timeout    time.Duration
	MinDelay   time.Duration
	MaxRetries int
}

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("geocoder: %s returned HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("geocoder: %s returned HTTP %d: %s", e.URL, e.StatusCode, body)
}

// Temporary reports whether the request may succeed if repeated.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client talks to a Nominatim compatible geocoding service.
// Requests are spaced by Config.MinDelay and failed attempts are retried up to Config.MaxRetries times.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	backoff    func() backoff.BackOff
}

// Option customises a Client.
type Option func(*Client)

// WithLimiter makes the client wait on l instead of its own limiter,
// so several clients can share one request rate.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewLimiter allows one request per minDelay. Zero or less means no limit.
func NewLimiter(minDelay time.Duration) *rate.Limiter {
	if minDelay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(minDelay), 1)
}

// NewClient creates a geocoding client from cfg.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: NewLimiter(cfg.MinDelay),
		backoff: newBackOff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newBackOff grows the delay between attempts. Only MaxRetries bounds the attempts.
func newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 0
	return b
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Reverse returns the display address of the point, or "" when the provider knows no address there.
func (c *Client) Reverse(ctx context.Context, coord models.Coordinate) (string, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))

	var resp reverseResponse
	if err := c.get(ctx, "/reverse", params, &resp); err != nil {
		return "", err
	}

	if resp.Error != "" {
		log.Debug().Str("error", resp.Error).Float64("lat", coord.Latitude).Float64("lon", coord.Longitude).Msg("reverse geocoding returned no address")
		return "", nil
	}

	return resp.DisplayName, nil
}

// Geocode returns the best match for query, or nil when there is none.
func (c *Client) Geocode(ctx context.Context, query string) (*models.Place, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("limit", "1")
	params.Set("q", query)

	var results []searchResult
	if err := c.get(ctx, "/search", params, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, nil
	}

	best := results[0]
	lat, err := strconv.ParseFloat(best.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder: invalid latitude %q: %w", best.Lat, err)
	}
	lon, err := strconv.ParseFloat(best.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder: invalid longitude %q: %w", best.Lon, err)
	}

	return &models.Place{
		DisplayName: best.DisplayName,
		Coordinate:  models.Coordinate{Latitude: lat, Longitude: lon},
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.cfg.Language != "" {
		params.Set("accept-language", c.cfg.Language)
	}
	reqURL := strings.TrimRight(c.cfg.BaseURL, "/") + path + "?" + params.Encode()

	attempt := 0
	op := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		err := c.do(ctx, reqURL, out)
		if err == nil {
			return nil
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.Temporary() {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}

		log.Warn().Err(err).Int("attempt", attempt).Str("url", reqURL).Msg("geocoding request failed")
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.backoff(), uint64(c.cfg.MaxRetries)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return fmt.Errorf("geocoder: request failed after %d attempt(s): %w", attempt, err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("geocoder: building request: %w", err))
	}

	// Nominatim's usage policy rejects requests without an identifying User-Agent.
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{URL: req.URL.Path, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
