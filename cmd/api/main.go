package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"docuchat/docs"
	"docuchat/internal/cleanup"
	"docuchat/internal/config"
	"docuchat/internal/conversation"
	"docuchat/internal/database"
	"docuchat/internal/database/migration"
	handlers "docuchat/internal/http/handler"
	"docuchat/internal/http/middleware"
	"docuchat/internal/logger"
	tracing "docuchat/internal/otel"
	"docuchat/internal/repository/postgres"
	"docuchat/internal/service"
	"docuchat/internal/storage"
)

// @title DocuChat API
// @version 0.1.0
// @description Upload documents to a session and chat about their content.
// @BasePath /
func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	defer func() { _ = log.Sync() }()
	log = log.With(zap.String("service", "docuchat-api"), zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Version, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = migration.EnsureMigrated(migrateCtx, db, log, cfg.Database.Host)
	cancel()
	if err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatal("failed to initialize object storage", zap.Error(err))
	}

	rdb, err := conversation.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr))
	}
	defer rdb.Close()
	history := conversation.NewRedisStore(rdb, cfg.Redis.ConversationTTL, cfg.Redis.MaxConversationLength, log)

	docRepo := postgres.NewDocumentPostgres(db)
	docSvc := service.NewDocumentService(objStore, docRepo, cfg.Upload.MaxBytes, log)
	chatSvc := service.NewChatService(objStore, docRepo, history, log)

	sweeper := cleanup.New(docSvc, cfg.Cleanup.Interval, cfg.Cleanup.Retention, log)
	sweeper.Start(ctx)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Room for the multipart envelope around a file at the size cap.
		BodyLimit:             int(cfg.Upload.MaxBytes) + 1<<20,
		DisableStartupMessage: true,
	})

	app.Use(cors.New())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == middleware.MetricsPath
	})))
	app.Use(middleware.RequestID())
	app.Use(prom.Handler())
	app.Use(middleware.Logger(log))

	app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:        db,
		Documents: docSvc,
		Chat:      chatSvc,
		Cleaner:   sweeper,
		Version:   cfg.Version,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		host := c.Get("Host")
		if host == "" {
			host = cfg.AppHost
		}
		docs.SwaggerInfo.Host = host
		docs.SwaggerInfo.Schemes = []string{scheme}
		docs.SwaggerInfo.Version = cfg.Version

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("http shutdown", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server starting", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := app.Listen(addr); err != nil {
		log.Error("server stopped", zap.Error(err))
	}

	flushCtx, cancelFlush := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelFlush()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Warn("tracing shutdown", zap.Error(err))
	}
}
