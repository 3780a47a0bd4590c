package payment

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"storefront/entity"
	"storefront/lib/api/response"
	"storefront/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Core interface {
	CreatePaymentIntent(ctx context.Context, req *entity.PaymentRequest) (*entity.PaymentIntent, error)
}

func Intent(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.payment")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.PaymentRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}
		logger = logger.With(
			sl.Cents("total", req.Total()),
			slog.String("method", string(req.DeliveryMethod)),
		)

		intent, err := handler.CreatePaymentIntent(r.Context(), &req)
		if err != nil {
			logger.Error("create payment intent", sl.Err(err))
			render.Status(r, response.StatusOf(err))
			render.JSON(w, r, response.ErrorDetails("Failed to create payment intent", err))
			return
		}
		logger.With(slog.String("payment_intent_id", intent.Id)).Debug("payment intent created")

		render.JSON(w, r, response.Ok(intent))
	}
}
