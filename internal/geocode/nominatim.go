// Package geocode resolves free-text place names through the public
// OpenStreetMap Nominatim service.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Place is one geocoding match. Name/SecondaryText mirror the split an
// autocomplete dropdown wants ("Chicago" / "Cook County, Illinois, USA").
type Place struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	FormattedName string  `json:"formatted_name"`
	SecondaryText string  `json:"secondary_text"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
}

// Client queries Nominatim with an in-memory per-query cache, a politeness
// interval between upstream calls (Nominatim usage policy asks for at most
// one request per second) and retry with backoff on transient failures.
// Safe for concurrent use.
type Client struct {
	session   *http.Client
	baseURL   string
	userAgent string

	mu       sync.Mutex
	cache    map[string][]Place
	lastCall time.Time
	interval time.Duration
}

func NewClient(baseURL, userAgent string) *Client {
	return &Client{
		session:   &http.Client{Timeout: 10 * time.Second},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		cache:     make(map[string][]Place),
		interval:  time.Second,
	}
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// Search returns up to five matches for the query. Queries shorter than two
// characters return an empty slice without touching the network.
func (c *Client) Search(ctx context.Context, query string) ([]Place, error) {
	norm := strings.Join(strings.Fields(query), " ")
	if utf8.RuneCountInString(norm) < 2 {
		return []Place{}, nil
	}

	c.mu.Lock()
	cached, ok := c.cache[norm]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	if err := c.throttle(ctx); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/search?" + url.Values{
		"format": {"json"},
		"q":      {norm},
		"limit":  {"5"},
	}.Encode()

	resp, err := c.doWithRetry(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("geocode search %q: %w", norm, err)
	}
	defer resp.Body.Close()

	var decoded []struct {
		PlaceID     json.Number `json:"place_id"`
		DisplayName string      `json:"display_name"`
		Lat         string      `json:"lat"`
		Lon         string      `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("geocode search %q: decode response: %w", norm, err)
	}

	places := make([]Place, 0, len(decoded))
	for _, d := range decoded {
		lat, err := strconv.ParseFloat(d.Lat, 64)
		if err != nil {
			return nil, fmt.Errorf("geocode search %q: parse lat %q: %w", norm, d.Lat, err)
		}
		lng, err := strconv.ParseFloat(d.Lon, 64)
		if err != nil {
			return nil, fmt.Errorf("geocode search %q: parse lon %q: %w", norm, d.Lon, err)
		}

		main, secondary := splitDisplayName(d.DisplayName)
		places = append(places, Place{
			ID:            d.PlaceID.String(),
			Name:          main,
			FormattedName: d.DisplayName,
			SecondaryText: secondary,
			Lat:           lat,
			Lng:           lng,
		})
	}

	c.mu.Lock()
	c.cache[norm] = places
	c.mu.Unlock()

	return places, nil
}

// throttle spaces upstream calls by the politeness interval.
func (c *Client) throttle(ctx context.Context) error {
	c.mu.Lock()
	now := time.Now()
	next := c.lastCall.Add(c.interval)
	wait := next.Sub(now)
	if wait <= 0 {
		c.lastCall = now
	} else {
		c.lastCall = next
	}
	c.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) doWithRetry(ctx context.Context, endpoint string) (*http.Response, error) {
	const maxAttempts = 3
	backoff := 250 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.session.Do(req)
		if err == nil && resp.StatusCode < 400 {
			return resp, nil
		}
		if err == nil {
			b, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			err = &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case http.StatusTooManyRequests, 500, 502, 503, 504:
				retry = true
			}
		}
		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}
		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}

	return nil, lastErr
}

// splitDisplayName turns "Chicago, Cook County, Illinois, USA" into a main
// label and the remainder.
func splitDisplayName(display string) (string, string) {
	parts := strings.SplitN(display, ",", 2)
	main := strings.TrimSpace(parts[0])
	if len(parts) == 1 {
		return main, ""
	}
	return main, strings.TrimSpace(parts[1])
}
