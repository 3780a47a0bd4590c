package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"storefront/entity"
	"storefront/internal/doordash"
	"storefront/lib/api/response"
	"storefront/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Core interface {
	DeliveryQuote(ctx context.Context, req *entity.QuoteRequest) (*entity.DeliveryQuote, error)
	DoorDashQuote(ctx context.Context, req *entity.QuoteRequest) *doordash.Delivery
	CreateDelivery(ctx context.Context, req *entity.DeliveryRequest) (*doordash.Delivery, error)
	DeliveryStatus(ctx context.Context, id string) (*doordash.Delivery, error)
}

func logger(log *slog.Logger, r *http.Request) *slog.Logger {
	return log.With(
		sl.Module("http.handlers.delivery"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
}

// Quote estimates the fee from the distance between the two addresses
func Quote(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logger(log, r)

		var req entity.QuoteRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Error("bind request", sl.Err(err))
			badRequest(w, r, err)
			return
		}

		quote, err := handler.DeliveryQuote(r.Context(), &req)
		if err != nil {
			logger.Error("delivery quote", sl.Err(err))
			render.Status(r, response.StatusOf(err))
			render.JSON(w, r, response.ErrorDetails("Failed to calculate delivery", err))
			return
		}
		logger.With(
			slog.Bool("available", quote.Available),
			slog.Float64("distance_km", quote.DistanceKm),
			sl.Cents("fee", quote.Fee),
		).Debug("delivery quoted")

		render.JSON(w, r, response.Ok(quote))
	}
}

// DoorDashQuote always answers with a fee, the flat fallback when the provider fails
func DoorDashQuote(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logger(log, r)

		var req entity.QuoteRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Error("bind request", sl.Err(err))
			badRequest(w, r, err)
			return
		}

		quote := handler.DoorDashQuote(r.Context(), &req)
		logger.With(
			slog.String("id", quote.ExternalDeliveryId),
			slog.String("status", quote.DeliveryStatus),
			sl.Cents("fee", quote.Fee),
		).Debug("doordash quote")

		render.JSON(w, r, response.Ok(quote))
	}
}

func Create(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logger(log, r)

		var req entity.DeliveryRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Error("bind request", sl.Err(err))
			badRequest(w, r, err)
			return
		}

		d, err := handler.CreateDelivery(r.Context(), &req)
		if err != nil {
			logger.Error("create delivery", sl.Err(err))
			render.Status(r, response.StatusOf(err))
			render.JSON(w, r, response.ErrorDetails("Failed to create delivery", err))
			return
		}
		logger.With(
			slog.String("id", d.ExternalDeliveryId),
			slog.String("tracking_url", d.TrackingUrl),
		).Info("delivery created")

		render.JSON(w, r, response.Ok(d))
	}
}

func Status(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logger(log, r)

		var req entity.DeliveryStatusRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Error("bind request", sl.Err(err))
			badRequest(w, r, err)
			return
		}

		d, err := handler.DeliveryStatus(r.Context(), req.DeliveryId)
		if err != nil {
			logger.Error("delivery status", sl.Err(err))
			render.Status(r, response.StatusOf(err))
			render.JSON(w, r, response.ErrorDetails("Failed to get delivery status", err))
			return
		}

		render.JSON(w, r, response.Ok(d))
	}
}
