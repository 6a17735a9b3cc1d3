package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ecofinds/marketplace/internal/config"
	"github.com/ecofinds/marketplace/internal/database"
	"github.com/ecofinds/marketplace/internal/events"
	"github.com/ecofinds/marketplace/internal/handlers"
	"github.com/ecofinds/marketplace/internal/logging"
	"github.com/ecofinds/marketplace/internal/middleware/reqlog"
	"github.com/ecofinds/marketplace/internal/ordernum"
	"github.com/ecofinds/marketplace/internal/repo"
	"github.com/ecofinds/marketplace/internal/search"
	"github.com/ecofinds/marketplace/internal/service"
	httpserver "github.com/ecofinds/marketplace/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	ctx := context.Background()
	db, err := database.Open(ctx, configuration.DSN())
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("database migrate error: %v", err)
	}

	nodeID, err := strconv.ParseInt(configuration.NODE_ID, 10, 64)
	if err != nil {
		log.Fatalf("invalid NODE_ID: %v", err)
	}
	orderNums, err := ordernum.New(nodeID)
	if err != nil {
		log.Fatal(err)
	}

	var producer *events.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = events.NewProducer([]string{configuration.KAFKA_ADDRESS})
	} else {
		logger.Warn("KAFKA_ADDRESS not set, domain events disabled")
	}

	var productIndex *search.ProductIndex
	if configuration.ES_URL != "" {
		esClient, err := search.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		productIndex = &search.ProductIndex{ES: esClient, Index: configuration.ES_INDEX}
	} else {
		logger.Warn("ES_URL not set, free-text search disabled")
	}

	tokens := &service.TokenService{
		DB:            db,
		JWTSecret:     []byte(configuration.JWT_SECRET),
		RefreshSecret: []byte(configuration.REFRESH_SECRET),
	}

	pruneCtx, stopPrune := context.WithCancel(ctx)
	defer stopPrune()
	go func() {
		users := &repo.UserRepo{DB: db}
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-pruneCtx.Done():
				return
			case <-ticker.C:
				if err := users.PruneRefreshTokens(pruneCtx); err != nil {
					logger.Error("refresh token prune error", "error", err)
				}
			}
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(reqlog.RequestLogger(logger))

	deps := httpserver.Deps{
		Tokens:      tokens,
		AuthHandler: &handlers.AuthHandler{Tokens: tokens, Producer: producer},
		UserHandler: &handlers.UserHandler{Users: &service.UserService{DB: db}},
		ProductHandler: &handlers.ProductHandler{
			Catalog:  &service.CatalogService{DB: db},
			Producer: producer,
			Index:    productIndex,
		},
		CartHandler: &handlers.CartHandler{
			Cart:     &service.CartService{DB: db},
			Producer: producer,
		},
		OrderHandler: &handlers.OrderHandler{
			Checkout: &service.CheckoutService{DB: db, OrderNums: orderNums},
			Orders:   &service.OrderService{DB: db},
			Producer: producer,
		},
		SearchHandler: &handlers.SearchHandler{Index: productIndex, DB: db},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", configuration.HTTP_ADDR)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
