package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"RuleForge/internal/domain/models"
	"RuleForge/internal/usecase"
	pkgch "RuleForge/pkg/clickhouse"
	"RuleForge/pkg/config"
	pkgkafka "RuleForge/pkg/kafka"
	applogger "RuleForge/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg      *config.Config
	runner   *usecase.ExtractionRunner
	consumer *pkgkafka.Consumer
	kh       pkgkafka.MessageHandler
	chClient *pkgch.Client
	log      *applogger.Logger
	ops      *echo.Echo
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	runner *usecase.ExtractionRunner,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	log *applogger.Logger,
) *App {
	return &App{
		cfg:      cfg,
		runner:   runner,
		consumer: consumer,
		kh:       kh,
		chClient: chClient,
		log:      log,
	}
}

// Run starts the application. In file mode it performs a single extraction
// and returns; in kafka mode it serves requests until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.startOps()

	switch a.cfg.Source.Mode {
	case "file":
		err := a.runOnce(ctx)
		a.shutdown(ctx)
		return err
	case "kafka":
		return a.serve(ctx)
	default:
		return fmt.Errorf("unknown source mode: %s", a.cfg.Source.Mode)
	}
}

// runOnce reads the model dump from disk and runs one extraction.
func (a *App) runOnce(ctx context.Context) error {
	dump, err := os.ReadFile(a.cfg.Source.Path)
	if err != nil {
		return fmt.Errorf("read model dump: %w", err)
	}

	req := &models.ExtractionRequest{
		Asset: a.cfg.Source.Asset,
		Model: json.RawMessage(dump),
	}

	set, err := a.runner.Run(ctx, req)
	if err != nil {
		return err
	}

	a.log.Info("run finished",
		applogger.String("path", a.cfg.Source.Path),
		applogger.String("run_id", set.RunID),
		applogger.Int("signals", len(set.Signals)))
	return nil
}

// serve consumes extraction requests from Kafka until interrupted.
func (a *App) serve(ctx context.Context) error {
	a.consumer.RegisterHandler(a.kh)
	if err := a.consumer.Start(); err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}
	a.log.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	a.shutdown(ctx)
	return nil
}

// startOps exposes health and metrics endpoints.
func (a *App) startOps() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET("/healthz", func(c echo.Context) error {
		if a.chClient != nil {
			if err := a.chClient.Health(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{
					"status": "degraded", "clickhouse": err.Error(),
				})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	if a.cfg.Metrics.Enabled {
		e.GET(a.cfg.Metrics.Path, echo.WrapHandler(promhttp.Handler()))
	}

	e.Server.ReadTimeout = a.cfg.Server.ReadTimeout
	e.Server.WriteTimeout = a.cfg.Server.WriteTimeout

	a.ops = e
	go func() {
		addr := fmt.Sprintf(":%d", a.cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			a.log.Error("ops server error", applogger.Error(err))
		}
	}()
	a.log.Info("ops server started", applogger.Int("port", a.cfg.Server.Port))
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.ops != nil {
		if err := a.ops.Shutdown(shutdownCtx); err != nil {
			a.log.Warn("ops shutdown error", applogger.Error(err))
		}
	}

	if a.runner != nil {
		a.runner.Close()
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
}
