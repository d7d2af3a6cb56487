package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fixitdz/contact-relay/config"
	"github.com/fixitdz/contact-relay/internal/handlers"
	"github.com/fixitdz/contact-relay/internal/services"
	"github.com/fixitdz/contact-relay/pkg/httpclient"
	"github.com/fixitdz/contact-relay/pkg/locale"
	"github.com/fixitdz/contact-relay/pkg/logger"
	"github.com/fixitdz/contact-relay/pkg/mailer"
	"github.com/fixitdz/contact-relay/pkg/metrics"
	"github.com/fixitdz/contact-relay/pkg/profiling"
	"github.com/fixitdz/contact-relay/pkg/tracing"
	"go.uber.org/zap"
)

const version = "1.0.0"

// newMailer selects the dispatch driver from configuration
func newMailer(cfg *config.Config) mailer.Mailer {
	sender := mailer.Sender{
		Address: cfg.Contact.FromAddress,
		Name:    cfg.Contact.FromName,
		XMailer: "contact-relay/" + version,
	}

	if cfg.SMTP.Driver == "log" {
		logger.Warn("MAIL_DRIVER=log: contact mail is written to the log, not delivered")
		return mailer.NewLogMailer(sender)
	}
	return mailer.NewSMTPMailer(mailer.SMTPConfigFrom(cfg.SMTP), sender)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting contact relay",
		zap.String("version", version),
		zap.String("environment", cfg.Server.AppEnv),
		zap.String("mail_driver", cfg.SMTP.Driver),
		zap.Int("recipients", len(cfg.Contact.Recipients)),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Continuous profiling
	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Error("Failed to start profiler", zap.Error(err))
	} else {
		defer stopProfiler()
	}

	metrics.Init()
	stopMetrics := make(chan struct{})
	defer close(stopMetrics)
	metrics.RecordInfrastructureMetrics(stopMetrics)

	catalog := locale.NewCatalog(cfg.Contact.DefaultLocale)
	mailDriver := newMailer(cfg)

	// Initialize HTTP client for external API calls
	httpClient := httpclient.NewClientWithTimeout(10 * time.Second)

	// Initialize services
	contactService := services.NewContactService(mailDriver, cfg, catalog, httpClient)

	// Initialize handlers
	contactHandler := handlers.NewContactHandler(contactService, catalog, cfg.Contact.ValidationStatus)
	fallbackHandler := handlers.NewFallbackHandler(catalog)
	var checker mailer.Checker
	if c, ok := mailDriver.(mailer.Checker); ok {
		checker = c
	}
	healthHandler := handlers.NewHealthHandler(checker)

	gin.SetMode(cfg.Server.GinMode)
	router := newRouter(cfg, routerDeps{
		catalog:  catalog,
		contact:  contactHandler,
		health:   healthHandler,
		fallback: fallbackHandler,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second, // covers a slow SMTP relay
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
