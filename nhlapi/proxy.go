// Package nhlapi implements the read-through proxy for the fixed set of
// upstream NHL endpoints named in spec.md §4.3, generalizing the teacher's
// services/nhl_api.go (MakeAPICall / makeAPICallInternal) with a circuit
// breaker and a token-bucket limiter from the ecosystem instead of
// hand-rolled services/rate_limiter.go and services/request_deduplication.go.
package nhlapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
	"github.com/jaredshillingburg/icehockey-analytics/cache"
)

const baseURL = "https://api-web.nhle.com/v1"

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Client is the read-through NHL API proxy. It validates input shape,
// consults the TTL cache, issues a bounded-timeout outbound GET through a
// circuit breaker, and stores the raw upstream body in the cache; the
// endpoint methods normalize heterogeneous upstream shapes after every
// read, cached or not.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	cache   *cache.Store
	baseURL string

	// inflight deduplicates concurrent fetches of the same URL, the way
	// the teacher's request_deduplication.go collapsed duplicate calls.
	mu       sync.Mutex
	inflight map[string]*inflightCall
}

type inflightCall struct {
	done chan struct{}
	body []byte
	err  error
}

// NewClient builds a Client with the given requests-per-second limit and
// burst, mirroring the rate-limit parameters threaded from config.
func NewClient(rps float64, burst int) *Client {
	st := gobreaker.Settings{
		Name:        "nhl-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &Client{
		http:     &http.Client{Timeout: 10 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		breaker:  gobreaker.NewCircuitBreaker[[]byte](st),
		inflight: make(map[string]*inflightCall),
		baseURL:  baseURL,
	}
}

// WithCache attaches the shared TTL cache store, wiring this proxy into
// the cache/TTL/ETag layer of spec.md §4.2.
func (c *Client) WithCache(store *cache.Store) *Client {
	c.cache = store
	return c
}

// WithBaseURL overrides the upstream host, used by tests to point the
// client at an httptest server instead of the real NHL API.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// get performs the cache-then-fetch-then-store pipeline for a single
// upstream URL, deduplicating concurrent identical requests.
func (c *Client) get(ctx context.Context, key, url string, ttl time.Duration) ([]byte, *apperr.Error) {
	if c.cache != nil {
		if v, ok := c.cache.GetIfFresh(key, nil); ok {
			return v.([]byte), nil
		}
	}

	body, err := c.dedupedFetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Put(key, body, ttl)
	}
	return body, nil
}

func (c *Client) dedupedFetch(ctx context.Context, url string) ([]byte, *apperr.Error) {
	c.mu.Lock()
	if call, ok := c.inflight[url]; ok {
		c.mu.Unlock()
		<-call.done
		if call.err != nil {
			return nil, call.err.(*apperr.Error)
		}
		return call.body, nil
	}
	call := &inflightCall{done: make(chan struct{})}
	c.inflight[url] = call
	c.mu.Unlock()

	body, err := c.fetch(ctx, url)
	call.body = body
	if err != nil {
		call.err = err
	}

	c.mu.Lock()
	delete(c.inflight, url)
	c.mu.Unlock()
	close(call.done)

	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, *apperr.Error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperr.New(apperr.GatewayTimeout, "nhlapi.fetch", "rate limiter wait cancelled")
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "icehockey-analytics/1.0")

		res, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("timeout: %w", err)
			}
			return nil, fmt.Errorf("network: %w", err)
		}
		defer res.Body.Close()

		data, readErr := io.ReadAll(res.Body)
		if readErr != nil {
			return nil, fmt.Errorf("network: %w", readErr)
		}
		if res.StatusCode < 200 || res.StatusCode >= 300 {
			return nil, &upstreamStatusError{status: res.StatusCode}
		}
		return data, nil
	})
	if err != nil {
		return nil, classifyUpstreamError(err)
	}
	return body, nil
}

type upstreamStatusError struct{ status int }

func (e *upstreamStatusError) Error() string {
	return fmt.Sprintf("upstream status %d", e.status)
}

func classifyUpstreamError(err error) *apperr.Error {
	var statusErr *upstreamStatusError
	if se, ok := err.(*upstreamStatusError); ok {
		statusErr = se
		return apperr.Wrap(err, apperr.BadGateway, "nhlapi.fetch").WithUpstreamStatus(statusErr.status)
	}
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return apperr.Wrap(err, apperr.ServiceUnavailable, "nhlapi.fetch").WithCode("circuit_open")
	}
	msg := err.Error()
	switch {
	case hasPrefix(msg, "timeout:"):
		return apperr.Wrap(err, apperr.GatewayTimeout, "nhlapi.fetch")
	case hasPrefix(msg, "network:"):
		return apperr.Wrap(err, apperr.BadGateway, "nhlapi.fetch")
	default:
		return apperr.Wrap(err, apperr.BadGateway, "nhlapi.fetch").WithCode("invalid_response")
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func validateDate(date string) *apperr.Error {
	if !dateRe.MatchString(date) {
		return apperr.New(apperr.BadRequest, "nhlapi.validate", "date must be YYYY-MM-DD").WithCode("bad_format")
	}
	return nil
}

func unmarshalOrBadGateway(body []byte, out any) *apperr.Error {
	if err := json.Unmarshal(body, out); err != nil {
		return apperr.Wrap(err, apperr.BadGateway, "nhlapi.normalize").WithCode("invalid_response")
	}
	return nil
}

// sortStandings orders normalized rows by points desc, goal differential
// desc, wins desc, per spec.md §4.3 "Ordering / tie-breaks".
func sortStandings(rows []StandingsRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].GoalDifferential != rows[j].GoalDifferential {
			return rows[i].GoalDifferential > rows[j].GoalDifferential
		}
		return rows[i].Wins > rows[j].Wins
	})
}
