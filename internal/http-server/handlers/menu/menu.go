package menu

import (
	"context"
	"log/slog"
	"net/http"

	"storefront/entity"
	"storefront/lib/api/response"
	"storefront/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Core interface {
	Restaurant(ctx context.Context) (*entity.Restaurant, error)
	Menu(ctx context.Context) ([]*entity.Category, error)
}

func Restaurant(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.menu"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		restaurant, err := handler.Restaurant(r.Context())
		if err != nil {
			logger.Error("get restaurant", sl.Err(err))
			render.Status(r, response.StatusOf(err))
			render.JSON(w, r, response.ErrorDetails("Failed to load restaurant", err))
			return
		}

		render.JSON(w, r, response.Ok(restaurant))
	}
}

func Menu(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.menu"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		categories, err := handler.Menu(r.Context())
		if err != nil {
			logger.Error("get menu", sl.Err(err))
			render.Status(r, response.StatusOf(err))
			render.JSON(w, r, response.ErrorDetails("Failed to load menu", err))
			return
		}
		logger.With(slog.Int("categories", len(categories))).Debug("menu loaded")

		render.JSON(w, r, response.Ok(categories))
	}
}
