// Package hotelsapi is a small client for the listing API, used by hotelctl.
package hotelsapi

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_listing/internal/adapters/observability"
	"hotel_listing/internal/domain"
)

const service = "hotels_api"

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("API base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// HotelsResponse mirrors the list envelope.
type HotelsResponse struct {
	Success bool               `json:"success"`
	Count   int                `json:"count"`
	Total   int                `json:"total"`
	Page    int                `json:"page"`
	Pages   int                `json:"pages"`
	Hotels  []domain.HotelView `json:"hotels"`
}

// ListHotels fetches one page; q carries the server-side filters as-is.
func (c *Client) ListHotels(ctx context.Context, q url.Values) (HotelsResponse, error) {
	var out HotelsResponse
	u := c.base + "/hotels"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return out, c.get(ctx, "hotels", u, &out)
}

// ListAllHotels walks every page.
func (c *Client) ListAllHotels(ctx context.Context, q url.Values) ([]domain.HotelView, error) {
	q = cloneValues(q)
	if q.Get("limit") == "" {
		q.Set("limit", "100")
	}
	var all []domain.HotelView
	for page := 1; ; page++ {
		q.Set("page", strconv.Itoa(page))
		resp, err := c.ListHotels(ctx, q)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Hotels...)
		if page >= resp.Pages || len(resp.Hotels) == 0 {
			return all, nil
		}
	}
}

func (c *Client) States(ctx context.Context) ([]string, error) {
	var out struct {
		States []string `json:"states"`
	}
	return out.States, c.get(ctx, "states", c.base+"/locations/states", &out)
}

func (c *Client) Cities(ctx context.Context, state string) ([]string, error) {
	var out struct {
		Cities []string `json:"cities"`
	}
	u := c.base + "/locations/cities?" + url.Values{"state": {state}}.Encode()
	return out.Cities, c.get(ctx, "cities", u, &out)
}

var (
	ErrNotFound = errors.New("hotels api: not found")
	ErrBadQuery = errors.New("hotels api: bad request")
)

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, endpoint, u string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "hotelctl/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternalError(service, endpoint, err, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusBadRequest:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("%w: %s", ErrBadQuery, strings.TrimSpace(string(b)))

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

func cloneValues(q url.Values) url.Values {
	out := url.Values{}
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
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

// retryAfter parses Retry-After (seconds or HTTP-date); 0 if absent or invalid.
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

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
