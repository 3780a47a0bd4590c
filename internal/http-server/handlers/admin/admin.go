package admin

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"storefront/entity"
	"storefront/internal/doordash"
	"storefront/lib/api/cont"
	"storefront/lib/api/response"
	"storefront/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Core interface {
	MenuItems(ctx context.Context) ([]*entity.MenuItem, error)
	UpdateMenuImages(ctx context.Context, req *entity.MenuImages) ([]*entity.MenuImageResult, error)
	CreateDoorDashBusiness(ctx context.Context, req *entity.BusinessRequest) (*doordash.Business, error)
	CreateDoorDashStore(ctx context.Context, req *entity.StoreRequest) (*doordash.Store, error)
	DoorDashStores(ctx context.Context, businessId string) ([]doordash.Store, error)
	DoorDashDefaults(ctx context.Context) (*doordash.Defaults, error)
	RecentOrders(ctx context.Context, since time.Time) ([]*entity.Order, error)
}

func logger(log *slog.Logger, r *http.Request) *slog.Logger {
	l := log.With(
		sl.Module("http.handlers.admin"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	if user := cont.GetUser(r.Context()); user != nil {
		l = l.With(slog.String("user", user.Username))
	}
	return l
}

func failed(w http.ResponseWriter, r *http.Request, message string, err error) {
	render.Status(r, response.StatusOf(err))
	render.JSON(w, r, response.ErrorDetails(message, err))
}

func bind(w http.ResponseWriter, r *http.Request, logger *slog.Logger, v render.Binder) bool {
	if err := render.Bind(r, v); err != nil {
		logger.Error("bind request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
		return false
	}
	return true
}

func MenuItems(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logger(log, r)

		items, err := handler.MenuItems(r.Context())
		if err != nil {
			logger.Error("list menu items", sl.Err(err))
			failed(w, r, "Failed to list menu items", err)
			return
		}

		render.JSON(w, r, response.Ok(items))
	}
}

func MenuImages(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logger(log, r)

		var req entity.MenuImages
		if !bind(w, r, logger, &req) {
			return
		}

		results, err := handler.UpdateMenuImages(r.Context(), &req)
		if err != nil {
			logger.Error("update menu images", sl.Err(err))
			failed(w, r, "Failed to update menu images", err)
			return
		}

		render.JSON(w, r, response.Ok(results))
	}
}

func CreateBusiness(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logger(log, r)

		var req entity.BusinessRequest
		if r.ContentLength != 0 && !bind(w, r, logger, &req) {
			return
		}

		business, err := handler.CreateDoorDashBusiness(r.Context(), &req)
		if err != nil {
			logger.Error("create business", sl.Err(err))
			failed(w, r, "Failed to create business", err)
			return
		}
		logger.With(slog.String("business_id", business.ExternalBusinessId)).Info("business created")

		render.JSON(w, r, response.Ok(business))
	}
}

func CreateStore(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logger(log, r)

		var req entity.StoreRequest
		if r.ContentLength != 0 && !bind(w, r, logger, &req) {
			return
		}

		store, err := handler.CreateDoorDashStore(r.Context(), &req)
		if err != nil {
			logger.Error("create store", sl.Err(err))
			failed(w, r, "Failed to create store", err)
			return
		}
		logger.With(slog.String("store_id", store.ExternalStoreId)).Info("store created")

		render.JSON(w, r, response.Ok(store))
	}
}

func Stores(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logger(log, r)

		stores, err := handler.DoorDashStores(r.Context(), r.URL.Query().Get("business_id"))
		if err != nil {
			logger.Error("list stores", sl.Err(err))
			failed(w, r, "Failed to list stores", err)
			return
		}

		render.JSON(w, r, response.Ok(stores))
	}
}

func Defaults(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logger(log, r)

		defaults, err := handler.DoorDashDefaults(r.Context())
		if err != nil {
			logger.Error("list defaults", sl.Err(err))
			failed(w, r, "Failed to list defaults", err)
			return
		}

		render.JSON(w, r, response.Ok(defaults))
	}
}

// Orders lists orders created since the RFC 3339 "since" query value
func Orders(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logger(log, r)

		var since time.Time
		if value := r.URL.Query().Get("since"); value != "" {
			var err error
			since, err = time.Parse(time.RFC3339, value)
			if err != nil {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Invalid since, expected RFC 3339 time"))
				return
			}
		}

		orders, err := handler.RecentOrders(r.Context(), since)
		if err != nil {
			logger.Error("list orders", sl.Err(err))
			failed(w, r, "Failed to list orders", err)
			return
		}

		render.JSON(w, r, response.Ok(orders))
	}
}
