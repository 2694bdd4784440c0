// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"project-workers/internal/common/aws"
	"project-workers/internal/common/camunda"
	"project-workers/internal/common/config"
	"project-workers/internal/common/database"
	"project-workers/internal/common/logger"
	"project-workers/internal/common/observability"
	"project-workers/internal/matching"
	"project-workers/internal/store/cache"
	"project-workers/internal/store/postgres"
	"project-workers/internal/store/search"
	"project-workers/internal/workers/catalog"
	"project-workers/internal/workflow"

	gw "project-workers/internal/workers/matching/generate-workflow"
	se "project-workers/internal/workers/matching/suggest-employees"
	crr "project-workers/internal/workers/request/create-request-record"
	nse "project-workers/internal/workers/request/notify-suggested-employees"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// connectPostgres opens a pool and pings it, closing the pool when the ping fails.
func connectPostgres(ctx context.Context, open func() (*database.PostgresClient, error)) (*database.PostgresClient, error) {
	pg, err := open()
	if err != nil {
		return nil, err
	}
	if err := pg.Ping(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Zeebe ---
	zeebe, err := camunda.NewClientWithConfig(ctx, camunda.ClientConfigFrom(cfg.Camunda))
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = connectPostgres(ctx, func() (*database.PostgresClient, error) {
			return database.NewPostgres(cfg.Database.Postgres)
		})
		return err
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	store := postgres.New(pg.DB, log)
	readiness := []database.Pinger{zeebe, pg}

	// --- Employee source ---
	var employees matching.EmployeeSource = store
	if cfg.Matching.EmployeeSource == config.EmployeeSourceElasticsearch {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully", zap.String("index", cfg.Matching.EmployeeIndex))

		employees = search.NewDirectory(esClient.Client, cfg.Matching.EmployeeIndex, log)
		readiness = append(readiness, esClient)
	}

	// --- Redis roster cache ---
	if cfg.Matching.RosterCacheTTL > 0 {
		rdb := database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		zapLog.Info("Redis connected successfully")

		employees = cache.NewRosterCache(employees, rdb.Client, config.GetDuration(cfg.Matching.RosterCacheTTL), log)
		readiness = append(readiness, rdb)
	}

	ranker := matching.NewRanker(&matching.RankerConfig{MaxConcurrency: cfg.Matching.MaxConcurrency}, employees, store, log)
	generator := workflow.NewGenerator(ranker, log)

	// --- Notification channels ---
	var (
		emailSender nse.EmailSender
		smsSender   nse.SMSSender
	)
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		awsCfg, err := aws.LoadConfig(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("aws config load failed", zap.Error(err))
		}
		if cfg.Notifications.Email.Enabled {
			emailSender = aws.NewEmailSender(awsCfg, cfg.Notifications.Email.FromEmail)
		}
		if cfg.Notifications.SMS.Enabled {
			smsSender = aws.NewSMSSender(awsCfg, cfg.Notifications.SMS.SenderID)
		}
	}

	// --- Activity registry ---
	activities := catalog.Registry()
	if err := activities.Validate(); err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}
	zapLog.Info("activity registry loaded",
		zap.String("version", activities.Version),
		zap.Int("activities", len(activities.Activities)),
	)

	// --- Workers ---
	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	handlers := map[string]camunda.JobHandler{
		se.TaskType: se.NewHandler(&se.Config{Timeout: timeout(se.TaskType)}, ranker, log),
		gw.TaskType: gw.NewHandler(&gw.Config{Timeout: timeout(gw.TaskType)}, generator, log),
		crr.TaskType: crr.NewHandler(&crr.Config{
			Timeout:         timeout(crr.TaskType),
			DefaultPriority: crr.DefaultConfig().DefaultPriority,
		}, store, log),
		nse.TaskType: nse.NewHandler(&nse.Config{
			Timeout:              timeout(nse.TaskType),
			EmailEnabled:         cfg.Notifications.Email.Enabled,
			SMSEnabled:           cfg.Notifications.SMS.Enabled,
			SMSPriorityThreshold: cfg.Notifications.SMS.PriorityThreshold,
		}, store, emailSender, smsSender, log),
	}

	var workers []*camunda.Worker
	for _, activity := range activities.Activities {
		w := camunda.StartWorker(zeebe.GetClient(), activity.TaskType,
			config.GetWorkerConfig(cfg, activity.TaskType), handlers[activity.TaskType], obs, zapLog)
		if w != nil {
			workers = append(workers, w)
		}
	}
	zapLog.Info("workers started", zap.Int("count", len(workers)))

	// --- Health and metrics ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := database.CheckAll(r.Context(), 2*time.Second, readiness...); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"not ready","error":%q}`, err.Error())
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	server := &http.Server{Addr: cfg.Server.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("HTTP server shutdown failed", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("observability shutdown failed", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped")
}
