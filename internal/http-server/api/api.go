package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"storefront/entity"
	"storefront/internal/config"
	handlerErrors "storefront/internal/http-server/handlers/errors"
	"storefront/internal/http-server/handlers/admin"
	"storefront/internal/http-server/handlers/cart"
	"storefront/internal/http-server/handlers/checkout"
	"storefront/internal/http-server/handlers/delivery"
	"storefront/internal/http-server/handlers/menu"
	"storefront/internal/http-server/handlers/orders"
	"storefront/internal/http-server/handlers/payment"
	"storefront/internal/http-server/handlers/stripehandler"
	"storefront/internal/http-server/middleware/authenticate"
	"storefront/internal/http-server/middleware/reqlog"
	"storefront/internal/http-server/middleware/timeout"
	"storefront/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	menu.Core
	cart.Core
	checkout.Core
	orders.Core
	delivery.Core
	payment.Core
	admin.Core
	stripehandler.Core
}

func canManageMenu(user *entity.User) bool {
	return user.ManageMenu
}

func canManageDelivery(user *entity.User) bool {
	return user.ManageDelivery
}

func isStaff(user *entity.User) bool {
	return user.ManageMenu || user.ManageDelivery
}

func NewRouter(log *slog.Logger, handler Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(reqlog.New(log))

	router.NotFound(handlerErrors.NotFound(log))
	router.MethodNotAllowed(handlerErrors.NotAllowed(log))

	router.Route("/v1", func(rootApi chi.Router) {
		rootApi.Use(timeout.Timeout(20 * time.Second))
		rootApi.Use(render.SetContentType(render.ContentTypeJSON))

		rootApi.Get("/restaurant", menu.Restaurant(log, handler))
		rootApi.Get("/menu", menu.Menu(log, handler))
		rootApi.Post("/cart/price", cart.Price(log, handler))
		rootApi.Route("/delivery", func(dl chi.Router) {
			dl.Post("/quote", delivery.Quote(log, handler))
			dl.Post("/doordash-quote", delivery.DoorDashQuote(log, handler))
			dl.Post("/create", delivery.Create(log, handler))
			dl.Post("/status", delivery.Status(log, handler))
		})
		rootApi.Post("/payment/intent", payment.Intent(log, handler))
		rootApi.Post("/checkout", checkout.Checkout(log, handler))
		rootApi.Get("/orders/{id}", orders.Get(log, handler))

		rootApi.Route("/admin", func(adm chi.Router) {
			adm.Use(authenticate.New(log, handler))
			adm.With(authenticate.Require(isStaff)).Get("/orders", admin.Orders(log, handler))
			adm.Group(func(mn chi.Router) {
				mn.Use(authenticate.Require(canManageMenu))
				mn.Get("/menu-items", admin.MenuItems(log, handler))
				mn.Post("/menu-images", admin.MenuImages(log, handler))
			})
			adm.Route("/doordash", func(dd chi.Router) {
				dd.Use(authenticate.Require(canManageDelivery))
				dd.Post("/business", admin.CreateBusiness(log, handler))
				dd.Post("/store", admin.CreateStore(log, handler))
				dd.Get("/stores", admin.Stores(log, handler))
				dd.Get("/defaults", admin.Defaults(log, handler))
			})
		})
	})
	router.Route("/webhook", func(rootWH chi.Router) {
		rootWH.Post("/stripe", stripehandler.Event(log, handler))
	})

	return router
}

// New serves the api until ctx is canceled, then drains open requests
func New(ctx context.Context, conf *config.Config, log *slog.Logger, handler Handler) error {
	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:      NewRouter(log, handler),
		ErrorLog:     httpLog,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIp, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.httpServer.Shutdown(shutdownCtx); err != nil {
			server.log.Error("shutdown", sl.Err(err))
		}
	}()

	server.log.Info("starting api server", slog.String("address", serverAddress))

	err = server.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
