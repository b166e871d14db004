package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"safaribook/internal/config"
	"safaribook/internal/database"
	"safaribook/internal/modules/live"
	"safaribook/internal/modules/notification"
	"safaribook/internal/pkg/cache"
	"safaribook/internal/pkg/logger"
	"safaribook/internal/repository"
	"safaribook/internal/server"
)

const shutdownTimeout = 15 * time.Second

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

type mailRunner interface {
	Run(ctx context.Context) error
}

// serve runs the HTTP server and the mail outbox until ctx is cancelled.
// The outbox keeps accepting mail until the server has finished its
// in-flight requests, then drains.
func serve(ctx context.Context, srv httpServer, outbox mailRunner, log logrus.FieldLogger) error {
	outboxCtx, stopOutbox := context.WithCancel(context.Background())
	defer stopOutbox()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return outbox.Run(outboxCtx)
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		defer stopOutbox()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}

	log := logger.New(cfg.LogLevel, cfg.AppEnv)
	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseURL, database.DefaultRetryPolicy(), log)
	if err != nil {
		log.WithError(err).Fatal("database")
	}
	defer db.Close()

	report := db.EnsureSchema(ctx, repository.Schema())
	if len(report.Failures) > 0 {
		log.WithField("failures", len(report.Failures)).Warn("schema check finished with errors")
	}

	var transport notification.Transport
	if cfg.Mail.Enabled() {
		transport = notification.NewSMTPTransport(notification.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			User:     cfg.Mail.User,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.User,
		})
	} else {
		log.Warn("EMAIL_HOST/EMAIL_USER not set, emails are logged instead of sent")
		transport = notification.NewLogTransport(log.WithField("component", "mail"))
	}
	outbox := notification.NewOutbox(transport, notification.OutboxConfig{
		QueueSize:   cfg.Mail.QueueSize,
		Workers:     cfg.Mail.Workers,
		MaxAttempts: cfg.Mail.MaxAttempts,
		RetryDelay:  cfg.Mail.RetryDelay,
	}, log.WithField("component", "outbox"))

	var store cache.Store = cache.NewNoop()
	if cfg.CacheTTL > 0 {
		store = cache.NewMemory(cfg.CacheTTL)
	}

	hub := live.NewHub(log.WithField("component", "live"))
	defer hub.Close()

	router := server.NewRouter(server.Deps{
		Config: cfg,
		DB:     db,
		Cache:  store,
		Mail:   outbox,
		Hub:    hub,
		Log:    log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.WithField("port", cfg.Port).Info("server starting")
	if err := serve(ctx, srv, outbox, log); err != nil {
		log.WithError(err).Error("server stopped with error")
	}

	stats := outbox.Stats()
	log.WithFields(logrus.Fields{
		"sent":    stats.Sent,
		"failed":  stats.Failed,
		"dropped": stats.Dropped,
	}).Info("mail outbox drained")
}
