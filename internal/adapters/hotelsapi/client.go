// internal/adapters/hotelsapi/client.go
package hotelsapi

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"hotel_search/internal/adapters/observability"
	"hotel_search/internal/domain"
)

const service = "hotels_api"

// Client talks to the hotel search HTTP API. Every failure that is not a
// client error (400/404) is marked transient.
type Client struct {
	base    string
	hc      *http.Client
	rl      *rate.Limiter
	retries int
}

// New builds a client for base, e.g. http://localhost:3001/api.
func New(base string, rps int) *Client {
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		hc:      &http.Client{Timeout: 10 * time.Second},
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
		retries: 3,
	}
}

// WithHTTPClient swaps the transport, mostly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.hc = hc
	return c
}

// WithRetries sets how many times a transient failure is retried.
func (c *Client) WithRetries(n int) *Client {
	c.retries = max(n, 0)
	return c
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Count   int    `json:"count"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ---- Public API ----

func (c *Client) Filtered(ctx context.Context, q domain.Query) (domain.FilteredResult, error) {
	var env envelope[domain.FilteredResult]
	err := c.get(ctx, "filtered", "/hotels/filtered", EncodeQuery(q), &env)
	return env.Data, err
}

func (c *Client) Search(ctx context.Context, f domain.FilterState) ([]domain.Hotel, error) {
	var env envelope[[]domain.Hotel]
	err := c.get(ctx, "search", "/hotels/search", EncodeFilters(f), &env)
	return env.Data, err
}

func (c *Client) Stats(ctx context.Context) (domain.CatalogStats, error) {
	var env envelope[domain.CatalogStats]
	err := c.get(ctx, "stats", "/hotels/stats", nil, &env)
	return env.Data, err
}

func (c *Client) Hotel(ctx context.Context, id int64) (domain.Hotel, error) {
	var env envelope[domain.Hotel]
	err := c.get(ctx, "hotel", "/hotels/"+strconv.FormatInt(id, 10), nil, &env)
	return env.Data, err
}

func (c *Client) HotelsByPlace(ctx context.Context, placeID int64) ([]domain.Hotel, error) {
	var env envelope[[]domain.Hotel]
	err := c.get(ctx, "place_hotels", fmt.Sprintf("/places/%d/hotels", placeID), nil, &env)
	return env.Data, err
}

func (c *Client) Places(ctx context.Context) ([]domain.Place, error) {
	var env envelope[[]domain.Place]
	err := c.get(ctx, "places", "/places", nil, &env)
	return env.Data, err
}

func (c *Client) Amenities(ctx context.Context) ([]domain.Amenity, error) {
	var env envelope[[]domain.Amenity]
	err := c.get(ctx, "amenities", "/amenities", nil, &env)
	return env.Data, err
}

func (c *Client) Cities(ctx context.Context, nameLike string) ([]domain.City, error) {
	var env envelope[[]domain.City]
	err := c.get(ctx, "cities", "/cities", url.Values{"name_like": {nameLike}}, &env)
	return env.Data, err
}

// ---- Internals ----

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on network errors, 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return domain.Transient(err, "rate limiter")
	}
	u := c.base + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var lastErr error
	for i := 0; i <= c.retries; i++ {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return errors.Wrap(err, "build request")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "hotel-search-coordinator/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(service, endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return domain.Transient(ctx.Err(), endpoint)
			}
			lastErr = err
			if i < c.retries && sleepCtx(ctx, backoff(i)) {
				continue
			}
			return domain.Transient(lastErr, endpoint)
		}
		observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return domain.Transient(err, "decode "+endpoint)
			}
			return nil

		case resp.StatusCode == http.StatusBadRequest:
			msg := failureMessage(resp)
			return domain.Invalidf("%s: %s", endpoint, msg)

		case resp.StatusCode == http.StatusNotFound:
			msg := failureMessage(resp)
			return domain.NotFoundf("%s: %s", endpoint, msg)

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < c.retries && sleepCtx(ctx, wait) {
				continue
			}
			return domain.Transient(lastErr, endpoint)

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return domain.Transient(fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b))), endpoint)
		}
	}
	return domain.Transient(lastErr, endpoint)
}

// failureMessage reads the message of an error envelope and closes the body.
func failureMessage(resp *http.Response) string {
	defer resp.Body.Close()
	var env envelope[json.RawMessage]
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&env); err != nil || env.Message == "" {
		return http.StatusText(resp.StatusCode)
	}
	return env.Message
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 100ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 100 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
