// Package directions has the directions providers used by the sampler.
package directions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/trafficprofile/internal/contract"
	"googlemaps.github.io/maps"
)

// ErrNoRoute is returned when the service answers without a usable route leg.
var ErrNoRoute = errors.New("no route returned")

// GoogleProvider implements DirectionsProvider using the Google Maps Directions API.
// It always asks for driving directions with the best_guess traffic model.
//
// The provider is safe for concurrent use.
type GoogleProvider struct {
	client *maps.Client
}

// GoogleOption customizes the underlying maps client.
type GoogleOption func(*googleOptions)

type googleOptions struct {
	baseURL    string
	httpClient *http.Client
}

// WithBaseURL points the provider at a different host, e.g. an httptest server.
func WithBaseURL(u string) GoogleOption {
	return func(o *googleOptions) { o.baseURL = u }
}

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(c *http.Client) GoogleOption {
	return func(o *googleOptions) { o.httpClient = c }
}

// NewGoogleProvider builds a provider authenticated with apiKey.
func NewGoogleProvider(apiKey string, opts ...GoogleOption) (*GoogleProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, contract.NewConfigError("api-key", "google api key is empty")
	}

	o := googleOptions{httpClient: &http.Client{Timeout: 10 * time.Second}}
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(o.httpClient),
	}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(o.baseURL))
	}

	c, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &GoogleProvider{client: c}, nil
}

// Name implements contract.DirectionsProvider.
func (g *GoogleProvider) Name() string { return "google" }

// DurationInTraffic implements contract.DirectionsProvider.
func (g *GoogleProvider) DurationInTraffic(ctx context.Context, origin, destination string, departAt time.Time) (float64, error) {
	req := &maps.DirectionsRequest{
		Origin:        origin,
		Destination:   destination,
		Mode:          maps.TravelModeDriving,
		DepartureTime: strconv.FormatInt(departAt.Unix(), 10),
		TrafficModel:  maps.TrafficModelBestGuess,
	}

	routes, _, err := g.client.Directions(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("directions %q -> %q: %w", origin, destination, err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 || routes[0].Legs[0] == nil {
		return 0, fmt.Errorf("directions %q -> %q: %w", origin, destination, ErrNoRoute)
	}

	leg := routes[0].Legs[0]
	if leg.DurationInTraffic <= 0 {
		return 0, fmt.Errorf("directions %q -> %q: leg has no duration_in_traffic", origin, destination)
	}
	return leg.DurationInTraffic.Minutes(), nil
}

var _ contract.DirectionsProvider = &GoogleProvider{}
