package orders

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"storefront/entity"
	"storefront/lib/api/response"
	"storefront/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Core interface {
	OrderStatus(ctx context.Context, id int64, intentId string) (*entity.OrderInfo, error)
}

func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.orders"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid order id"))
			return
		}
		logger = logger.With(slog.Int64("order_id", id))

		info, err := handler.OrderStatus(r.Context(), id, r.URL.Query().Get("payment_intent"))
		if err != nil {
			logger.Error("get order", sl.Err(err))
			render.Status(r, response.StatusOf(err))
			render.JSON(w, r, response.ErrorDetails("Failed to load order", err))
			return
		}

		render.JSON(w, r, response.Ok(info))
	}
}
