package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/nkhattar/comparekart/internal/api/handlers"
	"github.com/nkhattar/comparekart/internal/api/middleware"
	"github.com/nkhattar/comparekart/internal/config"
	"github.com/nkhattar/comparekart/internal/engine"
	"github.com/nkhattar/comparekart/internal/source"
	"github.com/nkhattar/comparekart/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the comparison API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cliLog := log.NewWithOptions(os.Stderr, log.Options{
		Level: parseLogLevel(cfg.Logging.Level),
	})
	slogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	catalog := source.NewCatalog(cfg.Catalog.Seed,
		source.WithLatency(cfg.Catalog.Latency))

	engineOpts := []engine.Option{engine.WithLogger(slogger)}
	if endpoints := cfg.Provider.CategoryEndpoints(); len(endpoints) > 0 {
		limiter := source.NewRateLimiter(
			cfg.Provider.RateLimit.PerSecond,
			cfg.Provider.RateLimit.Burst,
			cfg.Provider.RateLimit.DailyQuota,
		)
		remote := source.NewRemoteClient(endpoints,
			source.WithAPIKey(cfg.Provider.APIKey),
			source.WithHTTPClient(&http.Client{Timeout: cfg.Provider.Timeout}),
			source.WithRateLimiter(limiter),
		)
		engineOpts = append(engineOpts, engine.WithRemote(remote))
		cliLog.Info("remote provider configured", "categories", len(endpoints))
	} else {
		cliLog.Info("no remote provider configured, serving synthetic catalog only")
	}

	eng := engine.New(catalog, engineOpts...)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(slogger))
	e.Use(middleware.RequestLog(slogger))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler()
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)

	// Prometheus metrics.
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("comparekart API", Version))
	handlers.RegisterCompareRoutes(api, handlers.NewCompareHandler(eng))

	sessions := handlers.NewSessionHandler(eng,
		engine.WithDebounce(cfg.Engine.Debounce),
		engine.WithSessionLogger(slogger),
	)
	handlers.RegisterSessionRoutes(api, sessions)

	refresher, err := engine.NewRefresher(sessions, cfg.Engine.RefreshInterval, slogger)
	if err != nil {
		return fmt.Errorf("creating refresher: %w", err)
	}
	refresher.Start()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	cliLog.Info("starting server", "addr", addr)

	// Start server in a goroutine.
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cliLog.Error("server error", "err", err)
		}
	}()

	// Wait for interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cliLog.Info("shutting down server")

	<-refresher.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	cliLog.Info("server stopped")
	return nil
}

func parseLogLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
