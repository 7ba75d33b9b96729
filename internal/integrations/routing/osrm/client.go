package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/BearBump/DeliveryBox/internal/integrations/routing"
	"github.com/BearBump/DeliveryBox/internal/models"
	"github.com/pkg/errors"
)

const (
	defaultBaseURL = "http://router.project-osrm.org"
	defaultProfile = "driving"
	codeNoRoute    = "NoRoute"
)

type Client struct {
	baseURL  string
	profile  string
	timeout  time.Duration
	attempts int
	backoff  time.Duration
	httpc    *http.Client
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

// WithAttempts sets the total number of tries, including the first one.
func WithAttempts(n int) Option { return func(c *Client) { c.attempts = n } }

func WithBackoff(d time.Duration) Option { return func(c *Client) { c.backoff = d } }

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpc = h } }

func New(baseURL, profile string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if profile == "" {
		profile = defaultProfile
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		profile:  profile,
		timeout:  5 * time.Second,
		attempts: 2,
		backoff:  200 * time.Millisecond,
		httpc:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.attempts < 1 {
		c.attempts = 1
	}
	return c
}

type routeResp struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Duration float64 `json:"duration"`
		Distance float64 `json:"distance"`
	} `json:"routes"`
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("osrm http %d: %s", e.Code, e.Body)
}

func (c *Client) Route(ctx context.Context, from, to models.Location) (routing.RouteResult, error) {
	backoff := c.backoff
	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return routing.RouteResult{}, unavailable(err)
		}

		res, err := c.routeOnce(ctx, from, to)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if !retryable(err) || attempt == c.attempts {
			break
		}
		slog.Warn("osrm request failed, retrying", "attempt", attempt, "backoff", backoff.String(), "error", err.Error())

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return routing.RouteResult{}, unavailable(ctx.Err())
		case <-timer.C:
		}
		backoff *= 2
	}

	return routing.RouteResult{}, unavailable(lastErr)
}

func (c *Client) routeOnce(ctx context.Context, from, to models.Location) (routing.RouteResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.routeURL(from, to), nil)
	if err != nil {
		return routing.RouteResult{}, errors.Wrap(err, "new request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return routing.RouteResult{}, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return routing.RouteResult{}, errors.Wrap(err, "read body")
	}

	var r routeResp
	decodeErr := json.Unmarshal(body, &r)

	if resp.StatusCode/100 != 2 {
		// OSRM answers 400 with code=NoRoute when the points are not connected.
		if decodeErr == nil && r.Code == codeNoRoute {
			return routing.RouteResult{}, models.ErrNoRoute
		}
		return routing.RouteResult{}, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if decodeErr != nil {
		return routing.RouteResult{}, errors.Wrap(decodeErr, "decode")
	}
	if r.Code == codeNoRoute || len(r.Routes) == 0 {
		return routing.RouteResult{}, models.ErrNoRoute
	}

	first := r.Routes[0]
	if first.Duration < 0 {
		return routing.RouteResult{}, fmt.Errorf("osrm returned negative duration %v", first.Duration)
	}
	return routing.RouteResult{
		DurationSeconds: first.Duration,
		DistanceMeters:  first.Distance,
	}, nil
}

// routeURL encodes coordinates longitude first.
func (c *Client) routeURL(from, to models.Location) string {
	coords := formatCoord(from) + ";" + formatCoord(to)
	q := url.Values{}
	q.Set("overview", "false")
	return c.baseURL + "/route/v1/" + url.PathEscape(c.profile) + "/" + coords + "?" + q.Encode()
}

func formatCoord(l models.Location) string {
	return strconv.FormatFloat(l.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lat, 'f', -1, 64)
}

func retryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func unavailable(err error) error {
	if errors.Is(err, models.ErrRouteServiceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", models.ErrRouteServiceUnavailable, err)
}
