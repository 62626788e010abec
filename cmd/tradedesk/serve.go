package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"tradedesk/internal/collection"
	"tradedesk/internal/config"
	"tradedesk/internal/http/handler"
	"tradedesk/internal/http/middleware"
	"tradedesk/internal/logging"
	"tradedesk/internal/model"
	tracing "tradedesk/internal/otel"
	"tradedesk/internal/render"
	"tradedesk/internal/service"
	"tradedesk/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, loc, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, func() time.Time { return time.Now().In(loc) })
		},
	}
}

// server is the wired application.
type server struct {
	app     *fiber.App
	backend *backend
}

// newServer wires the store, collections, services and routes for cfg.
func newServer(ctx context.Context, cfg *config.AppConfig, now func() time.Time, reg *prometheus.Registry) (*server, error) {
	b, err := openBackend(ctx, cfg, logging.New("database"))
	if err != nil {
		return nil, err
	}
	st := store.New(b.repo, logging.New("store"))

	sizes := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tradedesk_collection_records",
		Help: "Number of records held by each collection.",
	}, []string{"collection"})
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		_ = b.close()
		return nil, err
	}
	if err := reg.Register(sizes); err != nil {
		_ = b.close()
		return nil, err
	}

	docs := collection.New[model.Document](ctx, st, service.DocumentsKey, render.Documents,
		collection.WithSizeGauge(sizes.WithLabelValues(service.DocumentsKey)))
	products := collection.New[model.Product](ctx, st, service.ProductsKey, render.Products,
		collection.WithSizeGauge(sizes.WithLabelValues(service.ProductsKey)))

	svcLog := logging.New("service")
	app := fiber.New(fiber.Config{
		AppName:               "tradedesk",
		ErrorHandler:          handler.ErrorHandler(),
		BodyLimit:             cfg.MaxUploadBytes,
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	})))
	app.Use(middleware.Logger(logging.New("http")))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(
		otelhttp.NewHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}), "metrics"),
	))

	handler.RegisterRoutes(app, handler.Deps{
		Health:        st,
		Documents:     service.NewDocumentService(docs, now, svcLog),
		Products:      service.NewProductService(products, now, svcLog),
		DocumentsView: docs,
		ProductsView:  products,
		Now:           now,
		Log:           logging.New("handler"),
	})

	return &server{app: app, backend: b}, nil
}

func serve(ctx context.Context, cfg *config.AppConfig, now func() time.Time) error {
	log := logging.New("server")

	shutdownTracing, err := tracing.Init(ctx, logging.New("otel"))
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv, err := newServer(ctx, cfg, now, reg)
	if err != nil {
		return err
	}
	defer func() {
		if err := srv.backend.close(); err != nil {
			log.Warn("backend_close_failed", zap.Error(err))
		}
	}()

	addr := net.JoinHostPort("", cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		log.Info("server_started",
			zap.String("addr", addr),
			zap.String("store_driver", cfg.Store.Driver),
			zap.String("app_host", cfg.AppHost),
		)
		errCh <- srv.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("server_stopping")
	if err := srv.app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
