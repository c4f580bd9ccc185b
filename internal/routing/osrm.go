// Package routing computes driving routes through the public OSRM service.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	metersPerMile  = 1609.344
	secondsPerHour = 3600.0
)

// ErrNoRoute is returned when OSRM cannot connect the requested points.
var ErrNoRoute = errors.New("routing: no route found")

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Leg is the stretch between two consecutive input points.
type Leg struct {
	DistanceMiles float64 `json:"distance_miles"`
	DurationHours float64 `json:"duration_hours"`
}

// Route is a computed driving route. GeometryGeoJSON holds the raw GeoJSON
// LineString exactly as OSRM returned it.
type Route struct {
	DistanceMiles   float64         `json:"distance_miles"`
	DurationHours   float64         `json:"duration_hours"`
	Legs            []Leg           `json:"legs"`
	GeometryGeoJSON json.RawMessage `json:"geometry"`
}

// Client calls an OSRM HTTP server (the public demo server by default).
// Safe for concurrent use.
type Client struct {
	session *http.Client
	baseURL string
	profile string
}

func NewClient(baseURL string) *Client {
	return &Client{
		session: &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving",
	}
}

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64         `json:"distance"` // meters
		Duration float64         `json:"duration"` // seconds
		Geometry json.RawMessage `json:"geometry"`
		Legs     []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// Route fetches the driving route visiting points in order.
func (c *Client) Route(ctx context.Context, points []Point) (*Route, error) {
	if len(points) < 2 {
		return nil, errors.New("routing: at least two points are required")
	}

	coords := make([]string, len(points))
	for i, p := range points {
		// OSRM wants lon,lat order.
		coords[i] = strconv.FormatFloat(p.Lng, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lat, 'f', 6, 64)
	}
	endpoint := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=geojson&steps=false",
		c.baseURL, c.profile, strings.Join(coords, ";"))

	resp, err := c.doWithRetry(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("routing: %w", err)
	}
	defer resp.Body.Close()

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("routing: decode response: %w", err)
	}

	if decoded.Code != "Ok" {
		if decoded.Code == "NoRoute" {
			return nil, fmt.Errorf("%w: %s", ErrNoRoute, decoded.Message)
		}
		return nil, fmt.Errorf("routing: upstream code %q: %s", decoded.Code, decoded.Message)
	}
	if len(decoded.Routes) == 0 {
		return nil, ErrNoRoute
	}

	best := decoded.Routes[0]
	out := &Route{
		DistanceMiles:   best.Distance / metersPerMile,
		DurationHours:   best.Duration / secondsPerHour,
		GeometryGeoJSON: best.Geometry,
	}
	for _, l := range best.Legs {
		out.Legs = append(out.Legs, Leg{
			DistanceMiles: l.Distance / metersPerMile,
			DurationHours: l.Duration / secondsPerHour,
		})
	}

	return out, nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
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
		req.Header.Set("Accept", "application/json")

		resp, err := c.session.Do(req)
		if err == nil && resp.StatusCode < 500 {
			// 4xx bodies still carry an OSRM code/message worth decoding.
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
		if errors.As(err, &he) && he.Code >= 500 {
			retry = true
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
