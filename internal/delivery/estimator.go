package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"storefront/entity"
	"storefront/lib/clock"
	"storefront/lib/sl"
)

var ErrDistanceUnavailable = errors.New("distance unavailable")

// Maps is the part of the mapping provider the estimator needs
type Maps interface {
	Geocode(ctx context.Context, address string) (*Point, error)
	DistanceMatrix(ctx context.Context, origin, destination string) (int, time.Duration, error)
}

type Distance struct {
	Km      float64 `json:"distance_km"`
	Minutes int     `json:"duration_minutes"`
}

type Estimator struct {
	maps Maps
	fees FeeSchedule
	log  *slog.Logger
}

func NewEstimator(maps Maps, fees FeeSchedule, log *slog.Logger) *Estimator {
	return &Estimator{
		maps: maps,
		fees: fees,
		log:  log.With(sl.Module("delivery")),
	}
}

// Distance geocodes both addresses and measures the straight line between them;
// when geocoding fails it asks the distance matrix for the road distance instead
func (e *Estimator) Distance(ctx context.Context, origin, destination string) (*Distance, error) {
	if e.maps == nil {
		return nil, fmt.Errorf("maps client not connected: %w", ErrDistanceUnavailable)
	}
	log := e.log.With(
		slog.String("from", origin),
		slog.String("to", destination),
	)

	type geoRes struct {
		p   *Point
		err error
	}
	chOrigin := make(chan geoRes, 1)
	chDest := make(chan geoRes, 1)
	go func() {
		p, err := e.maps.Geocode(ctx, origin)
		chOrigin <- geoRes{p: p, err: err}
	}()
	go func() {
		p, err := e.maps.Geocode(ctx, destination)
		chDest <- geoRes{p: p, err: err}
	}()
	o := <-chOrigin
	d := <-chDest

	if o.err == nil && d.err == nil && o.p != nil && d.p != nil {
		km := Haversine(*o.p, *d.p)
		dist := &Distance{
			Km:      roundKm(km),
			Minutes: e.fees.Duration(km),
		}
		log.With(
			slog.Float64("distance_km", dist.Km),
			slog.Int("duration_min", dist.Minutes),
		).Debug("distance calculated")
		return dist, nil
	}
	log.With(
		slog.Any("origin_error", o.err),
		slog.Any("destination_error", d.err),
	).Warn("geocoding unavailable, trying distance matrix")

	meters, duration, err := e.maps.DistanceMatrix(ctx, origin, destination)
	if err != nil {
		log.Error("distance matrix", sl.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrDistanceUnavailable, err)
	}
	return &Distance{
		Km:      roundKm(float64(meters) / 1000),
		Minutes: int(math.Ceil(duration.Minutes())),
	}, nil
}

// Quote never fails on distance problems; it reports delivery as unavailable instead
func (e *Estimator) Quote(ctx context.Context, pickup, dropoff string) *entity.DeliveryQuote {
	dist, err := e.Distance(ctx, pickup, dropoff)
	if err != nil {
		return &entity.DeliveryQuote{
			Available: false,
			Message:   "Unable to calculate delivery distance. Please try again.",
		}
	}

	if !e.fees.InRange(dist.Km) {
		e.log.With(
			slog.Float64("distance_km", dist.Km),
			slog.Float64("max_km", e.fees.MaxDistanceKm),
		).Warn("delivery distance exceeds maximum")
		return &entity.DeliveryQuote{
			Available:     false,
			DistanceKm:    dist.Km,
			MaxDistanceKm: e.fees.MaxDistanceKm,
			Message: fmt.Sprintf("Delivery not available - distance exceeds our service area (%.1fkm requested, max %gkm)",
				dist.Km, e.fees.MaxDistanceKm),
		}
	}

	fee := e.fees.Cents(dist.Km)
	e.log.With(
		slog.Float64("distance_km", dist.Km),
		slog.Int("duration_min", dist.Minutes),
		sl.Cents("fee", fee),
	).Info("delivery quote available")

	return &entity.DeliveryQuote{
		Available:             true,
		DistanceKm:            dist.Km,
		DurationMinutes:       dist.Minutes,
		MaxDistanceKm:         e.fees.MaxDistanceKm,
		Fee:                   fee,
		EstimatedDeliveryTime: clock.Format(time.Now().Add(time.Duration(dist.Minutes) * time.Minute)),
		Message:               fmt.Sprintf("Delivery available in %d minutes", dist.Minutes),
	}
}
