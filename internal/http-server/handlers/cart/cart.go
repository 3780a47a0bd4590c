package cart

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
	PriceCart(ctx context.Context, req *entity.CartRequest) (*entity.CartPrice, error)
}

// Price reprices submitted cart lines from the menu and adds delivery and tax
func Price(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.cart"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.CartRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}
		logger = logger.With(
			slog.Int("lines", len(req.Lines)),
			slog.String("method", string(req.DeliveryMethod)),
		)

		price, err := handler.PriceCart(r.Context(), &req)
		if err != nil {
			logger.Error("price cart", sl.Err(err))
			render.Status(r, response.StatusOf(err))
			render.JSON(w, r, response.ErrorDetails("Failed to price cart", err))
			return
		}
		logger.With(sl.Cents("total", price.Totals.Total)).Debug("cart priced")

		render.JSON(w, r, response.Ok(price))
	}
}
