package main // pin API server: the hosted record store behind the board

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/skate-pins/internal/config"
	"github.com/iliyamo/skate-pins/internal/database"
	"github.com/iliyamo/skate-pins/internal/handler"
	"github.com/iliyamo/skate-pins/internal/middleware"
	"github.com/iliyamo/skate-pins/internal/queue"
	"github.com/iliyamo/skate-pins/internal/repository"
	"github.com/iliyamo/skate-pins/internal/router"
	queue_publisher "github.com/iliyamo/skate-pins/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	if err := config.LoadDotEnv(); err != nil {
		logger.Warn("could not read .env", zap.Error(err))
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	mapCfg, err := config.LoadMapConfig(cfg.MapFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return err
	}
	defer db.Close()

	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		logger.Warn("redis unavailable; map cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	rl, err := config.LoadRateLimitConfig()
	if err != nil {
		return fmt.Errorf("rate limit config: %w", err)
	}

	pins := handler.NewPinHandler(repository.NewPinRepo(db), nil, logger)
	if pub := queue_publisher.New(cfg.RabbitURL, logger); pub != nil {
		pins.Events = pub
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover(), echomw.RequestID(), middleware.RequestLogger(logger))
	router.RegisterRoutes(e, &handler.MapHandler{Map: mapCfg}, config.LoadCacheConfig(), rdb)
	router.RegisterPins(e, pins, cfg.JWTSecret, rl, rdb, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	if cfg.RabbitURL != "" {
		consumer := &queue.Consumer{URL: cfg.RabbitURL, LogPath: cfg.EventLogPath, Logger: logger}
		g.Go(func() error { return consumer.Run(ctx) })
	}
	return g.Wait()
}
