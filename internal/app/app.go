package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"social-prospector-go/internal/config"
	"social-prospector-go/internal/db"
	"social-prospector-go/internal/delivery"
	"social-prospector-go/internal/dispatcher"
	"social-prospector-go/internal/handlers"
	"social-prospector-go/internal/metrics"
	"social-prospector-go/internal/notify"
	"social-prospector-go/internal/profile"
	"social-prospector-go/internal/qualify"
	"social-prospector-go/internal/reply"
	"social-prospector-go/internal/replyqueue"
	"social-prospector-go/internal/repository"
	"social-prospector-go/internal/scheduler"
	"social-prospector-go/internal/scoring"
	"social-prospector-go/internal/server"
)

const scanLockKey = "social-prospector:scan-lock"

// Run initializes and starts the application
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	config.SetupLogging(cfg.Log)

	logrus.Info("Starting Social Prospector")

	p, err := profile.Resolve(cfg.Profile.Name, cfg.Profile.File)
	if err != nil {
		return fmt.Errorf("failed to load industry profile: %w", err)
	}
	logrus.Infof("Using industry profile %s (%d keywords)", p.Slug, len(p.Keywords))

	dbConn, err := db.Init(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)
	leads := repository.NewLeadRepository(dbConn)
	queue := replyqueue.NewService(repository.NewReplyQueueRepository(dbConn))

	drafter, err := reply.NewDrafter(p)
	if err != nil {
		return fmt.Errorf("failed to parse reply templates: %w", err)
	}

	notifier, err := buildNotifier(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create notifier: %w", err)
	}

	pipeline := qualify.NewPipeline(p, scoring.NewEngine(p), leads, queue, drafter, notifier, m)

	collectors, err := collectorRegistry(ctx, cfg, p).Build(cfg.Scanner.Collectors)
	if err != nil {
		return fmt.Errorf("failed to build collectors: %w", err)
	}

	var lock scheduler.Lock
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		lock = scheduler.NewRedisLock(rdb, scanLockKey, cfg.Scanner.LockTTL)
		logrus.Infof("Using Redis scan lock at %s", cfg.Redis.Addr)
	}
	sched := scheduler.NewScheduler(cfg.Scanner.IntervalMinutes, collectors, pipeline, lock, m)

	if !cfg.Reddit.HasCredentials() {
		logrus.Warn("Reddit credentials are not configured, approved replies will fail until they are")
	}
	poster := delivery.NewRouter().Handle("reddit.com", delivery.NewRedditPoster(cfg.Reddit))
	disp := dispatcher.NewDispatcher(queue, poster, cfg.Dispatcher, m)

	h := handlers.NewHandlers(dbConn, p, leads, queue, drafter, sched, disp, prometheus.DefaultGatherer)
	router := server.SetupRouter(h)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if cfg.Scanner.Enabled {
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}
	if cfg.Dispatcher.Enabled {
		disp.Start()
	}

	serverErr := make(chan error, 1)
	go func() {
		logrus.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		logrus.Errorf("HTTP server error: %v", err)
	}

	logrus.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}
	disp.Stop()
	disp.Wait()
	sched.Shutdown()

	if sqlDB, err := dbConn.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logrus.Info("Server stopped gracefully")
	return nil
}

// buildNotifier fans out to every configured alert channel
func buildNotifier(ctx context.Context, cfg *config.Config) (notify.Notifier, error) {
	var multi notify.Multi
	if cfg.Gmail.Enabled() {
		g, err := notify.NewGmailNotifier(ctx, cfg.Gmail)
		if err != nil {
			return nil, err
		}
		multi = append(multi, g)
		logrus.Info("Gmail alerts enabled")
	}
	if cfg.Webhook.URL != "" {
		multi = append(multi, notify.NewWebhookNotifier(cfg.Webhook.URL, cfg.Webhook.Timeout))
		logrus.Info("Webhook alerts enabled")
	}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		tg, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return nil, err
		}
		multi = append(multi, tg)
		logrus.Info("Telegram alerts enabled")
	}
	if len(multi) == 0 {
		logrus.Warn("No alert channel configured, high-intent leads will only be logged")
		return notify.Nop{}, nil
	}
	return multi, nil
}
