package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/bot"
	"storefront/impl/auth"
	"storefront/impl/core"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/delivery"
	"storefront/internal/doordash"
	"storefront/internal/geo"
	"storefront/internal/http-server/api"
	"storefront/internal/postgres"
	"storefront/internal/stripeclient"
	"storefront/lib/logger"
	"storefront/lib/sl"
)

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "", "path to log file, overrides config")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	if *logPath != "" {
		conf.Log = *logPath
	}
	lg := logger.SetupLogger(conf.Env, conf.Log)
	lg.Info("starting storefront", slog.String("config", *configPath), slog.String("env", conf.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongo := database.NewMongoClient(conf)

	var notifier core.Notifier
	if conf.Telegram.Enabled {
		var db bot.Database
		if mongo != nil {
			db = mongo
		}
		tgBot, err := bot.NewTgBot(conf.Telegram.ApiKey, db, lg, bot.BotConfig{
			RequireApproval: conf.Telegram.RequireApproval,
		})
		if err != nil {
			lg.Error("telegram bot", sl.Err(err))
		} else {
			notifier = tgBot
			lg = slog.New(logger.NewTelegramHandler(lg.Handler(), tgBot, logger.ParseLevel(conf.Telegram.LogLevel)))
			go func() {
				if err := tgBot.Start(); err != nil {
					lg.Error("telegram bot", sl.Err(err))
				}
			}()
			defer tgBot.Stop()
		}
	}

	handler := core.New(conf, lg)
	if notifier != nil {
		handler.SetNotifier(notifier)
	}
	if mongo != nil {
		handler.SetDatabase(mongo)
		handler.SetAuthService(auth.New(mongo))
	} else {
		lg.Warn("mongodb disabled, admin api and webhook idempotency are unavailable")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	store, err := postgres.Connect(connectCtx, conf.Postgres, lg)
	cancel()
	if err != nil {
		lg.Error("postgres connect", sl.Err(err))
		return
	}
	if store != nil {
		defer store.Close()
		handler.SetCatalog(store)
		handler.SetOrders(store)
	} else {
		lg.Warn("postgres disabled, menu and orders are unavailable")
	}

	var maps delivery.Maps
	geoClient, err := geo.New(conf.GoogleMaps, lg)
	if err != nil && !errors.Is(err, geo.ErrNotConfigured) {
		lg.Error("google maps", sl.Err(err))
	}
	if geoClient != nil {
		maps = geoClient
	}
	handler.SetEstimator(delivery.NewEstimator(maps, delivery.FeeScheduleFromConfig(conf.Delivery), lg))

	if conf.DoorDash.Enabled {
		handler.SetCourier(doordash.New(conf.DoorDash, conf.Restaurant.Name, lg))
	}

	if stripeClient := stripeclient.New(conf, lg); stripeClient != nil {
		handler.SetPayments(stripeClient)
	}

	if err = api.New(ctx, conf, lg, handler); err != nil {
		lg.Error("server", sl.Err(err))
	}
	lg.Info("storefront stopped")
}
