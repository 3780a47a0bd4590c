package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/delivery"
	"storefront/lib/sl"

	"googlemaps.github.io/maps"
)

var ErrNotConfigured = errors.New("google maps api key not configured")

type Client struct {
	mc  *maps.Client
	log *slog.Logger
}

func New(conf config.GoogleMapsConfig, logger *slog.Logger) (*Client, error) {
	log := logger.With(sl.Module("geo"))
	if conf.APIKey == "" {
		log.Warn("google maps api key not configured")
		return nil, ErrNotConfigured
	}
	opts := []maps.ClientOption{
		maps.WithAPIKey(conf.APIKey),
		maps.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
	}
	if conf.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(conf.BaseURL))
	}
	mc, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("maps client: %w", err)
	}
	log.With(sl.Secret("api_key", conf.APIKey)).Info("google maps client initialized")
	return &Client{
		mc:  mc,
		log: log,
	}, nil
}

func (c *Client) Geocode(ctx context.Context, address string) (*delivery.Point, error) {
	if address == "" {
		return nil, fmt.Errorf("empty address")
	}
	results, err := c.mc.Geocode(ctx, &maps.GeocodingRequest{
		Address: address,
	})
	if err != nil {
		c.log.With(
			slog.String("address", address),
			sl.Err(err),
		).Warn("geocoding failed")
		return nil, fmt.Errorf("geocode: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("geocode: no results for %q", address)
	}
	loc := results[0].Geometry.Location
	return &delivery.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// DistanceMatrix returns the road distance in meters and the travel time
func (c *Client) DistanceMatrix(ctx context.Context, origin, destination string) (int, time.Duration, error) {
	resp, err := c.mc.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: []string{destination},
		Units:        maps.UnitsMetric,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("distance matrix: %w", err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return 0, 0, fmt.Errorf("distance matrix: empty response")
	}
	el := resp.Rows[0].Elements[0]
	if el.Status != "OK" {
		return 0, 0, fmt.Errorf("distance matrix: element status %s", el.Status)
	}
	return el.Distance.Meters, el.Duration, nil
}
