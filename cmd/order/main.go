package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/example/batchstock/internal/adapter/client"
	"github.com/example/batchstock/internal/adapter/handler"
	"github.com/example/batchstock/internal/adapter/storage"
	"github.com/example/batchstock/internal/config"
	"github.com/example/batchstock/internal/core/service"
	"github.com/example/batchstock/internal/port"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	logger = logger.With(zap.String("service", "order"))

	cfg := config.LoadOrder()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Fatal("failed to open mysql", zap.Error(err))
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("failed to ping mysql", zap.Error(err))
	}
	logger.Info("connected to mysql")

	repo := storage.NewMySQLOrderAdapter(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}

	// The inventory peer is reached over HTTP; the availability pre-check
	// goes through a Redis cache when Redis is reachable.
	var inventoryClient port.InventoryClient = client.NewInventoryHTTPClient(cfg.InventoryURL, cfg.PeerTimeout, logger)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, PoolSize: 100})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, availability cache disabled", zap.Error(err))
	} else {
		logger.Info("connected to redis")
		inventoryClient = client.NewCachedAvailabilityClient(
			inventoryClient, storage.NewRedisAdapter(rdb), cfg.AvailabilityTTL, logger)
	}

	orderService := service.NewOrderService(repo, inventoryClient, logger)

	mux := http.NewServeMux()
	handler.NewOrderHandler(orderService, logger).Register(mux)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("http server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)

	rdb.Close()
	db.Close()
	logger.Info("stopped")
}
