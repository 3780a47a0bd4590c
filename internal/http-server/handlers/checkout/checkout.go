package checkout

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
	Checkout(ctx context.Context, req *entity.CheckoutRequest) (*entity.CheckoutResult, error)
}

func Checkout(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.checkout"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.CheckoutRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}
		logger = logger.With(
			slog.String("customer", req.CustomerName),
			slog.String("method", string(req.DeliveryMethod)),
		)

		result, err := handler.Checkout(r.Context(), &req)
		if err != nil {
			logger.Error("checkout", sl.Err(err))
			render.Status(r, response.StatusOf(err))
			render.JSON(w, r, response.ErrorDetails("Checkout failed", err))
			return
		}
		logger.With(
			slog.Int64("order_id", result.OrderId),
			sl.Cents("total", result.Totals.Total),
		).Info("checkout created")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(result))
	}
}
