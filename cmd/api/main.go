package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-outreach/internal/config"
	"github.com/xavierca1/lead-outreach/internal/infra/database"
	"github.com/xavierca1/lead-outreach/internal/infra/http/handlers"
	"github.com/xavierca1/lead-outreach/internal/infra/http/middleware"
	"github.com/xavierca1/lead-outreach/internal/infra/integration/n8n"
	"github.com/xavierca1/lead-outreach/internal/infra/mail"
	"github.com/xavierca1/lead-outreach/internal/infra/queue"
	"github.com/xavierca1/lead-outreach/internal/infra/spreadsheet"
	"github.com/xavierca1/lead-outreach/internal/infra/worker"
	"github.com/xavierca1/lead-outreach/internal/usecase"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logrus.SetLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("database unavailable")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("migrations failed")
	}

	// 1. Repositories
	sheetRepo := database.NewSheetRepository(db)
	rowRepo := database.NewRowRepository(db)
	runRepo := database.NewRunRepository(db)
	signatureRepo := database.NewSignatureRepository(db)

	// 2. Transport to the workflow engine
	var (
		rabbit     *queue.RabbitMQ
		broker     handlers.BrokerStatus
		dispatcher usecase.Dispatcher
	)
	if cfg.AMQPURL != "" {
		rabbit, err = queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			logrus.WithError(err).Fatal("rabbitmq unavailable")
		}
		defer rabbit.Close()
		broker = rabbit
	}
	if cfg.DispatchTransport == config.TransportAMQP {
		dispatcher = queue.NewProducer(rabbit.Ch)
	} else {
		dispatcher = n8n.NewClient(cfg.N8NWebhookURL, cfg.N8NTimeout)
	}
	logrus.WithField("transport", cfg.DispatchTransport).Info("dispatch transport selected")

	alerts := mail.NewEmailSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.AlertFrom, cfg.AlertEmail)

	// 3. Use cases
	importUC := usecase.NewImportLeadsUseCase(sheetRepo, rowRepo, signatureRepo, spreadsheet.NewParser())
	sheetsUC := usecase.NewManageSheetsUseCase(sheetRepo, rowRepo, signatureRepo)
	rowsUC := usecase.NewManageRowsUseCase(sheetRepo, rowRepo)
	runUC := usecase.NewRunActionUseCase(sheetRepo, rowRepo, runRepo, signatureRepo, dispatcher, alerts, cfg.PublicBaseURL)
	callbackUC := usecase.NewHandleCallbackUseCase(runRepo, rowRepo)
	signaturesUC := usecase.NewManageSignaturesUseCase(signatureRepo)

	// 4. Background workers
	staleRuns := worker.NewStaleRunWorker(runRepo, cfg.StaleRunAfter, cfg.StaleRunTick)
	staleRuns.OnExpired = func(ids []string) { middleware.RecordStaleRuns(len(ids)) }
	go staleRuns.Start(ctx)

	if rabbit != nil {
		callbackWorker := queue.NewCallbackWorker(rabbit.Ch, callbackUC)
		go func() {
			if err := callbackWorker.Start(ctx); err != nil {
				logrus.WithError(err).Error("callback worker stopped")
			}
		}()
	}

	// 5. HTTP
	store, err := middleware.NewLimiterStore(cfg.RedisURL)
	if err != nil {
		logrus.WithError(err).Fatal("rate limiter store unavailable")
	}

	router, err := newRouter(routerDeps{
		Health:            handlers.NewHealthHandler(db, broker, cfg.Version),
		LeadFiles:         handlers.NewLeadFileHandler(importUC, sheetsUC, cfg.MaxUploadBytes),
		Rows:              handlers.NewRowHandler(rowsUC),
		Actions:           handlers.NewActionHandler(runUC),
		Callbacks:         handlers.NewCallbackHandler(callbackUC),
		Signatures:        handlers.NewSignatureHandler(signaturesUC),
		JWTSecret:         cfg.JWTSecret,
		CORSOrigins:       cfg.CORSOrigins,
		LimiterStore:      store,
		RateLimit:         cfg.RateLimit,
		CallbackRateLimit: cfg.CallbackRateLimit,
	})
	if err != nil {
		logrus.WithError(err).Fatal("could not build router")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{"addr": srv.Addr, "version": cfg.Version}).Info("lead outreach api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
}
