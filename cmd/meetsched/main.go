package main

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/md-evans-dev/meetsched/internal/availability"
	"github.com/md-evans-dev/meetsched/internal/handlers"
	"github.com/md-evans-dev/meetsched/internal/outbox"
	"github.com/md-evans-dev/meetsched/internal/storage"
	"github.com/md-evans-dev/meetsched/libs/config"
	"github.com/md-evans-dev/meetsched/libs/db"
	"github.com/md-evans-dev/meetsched/libs/httpx"
	"github.com/md-evans-dev/meetsched/libs/kafkax"
	otelx "github.com/md-evans-dev/meetsched/libs/otel"
	"github.com/md-evans-dev/meetsched/libs/runtime"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	service := config.String("SERVICE_NAME", "meetsched")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	users := storage.NewUserRepository(pool)
	rooms := storage.NewRoomRepository(pool)
	meetings := storage.NewMeetingRepository(pool)
	outboxRepo := outbox.NewRepository(pool)

	kafkaBrokers := config.String("KAFKA_BROKERS", "")
	publisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   kafkaBrokers,
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go publisher.Run(ctx)

	scheduler := availability.NewScheduler(meetings, rooms, nil)
	scheduleHandler := handlers.NewScheduleHandler(scheduler, logger)
	usersHandler := handlers.NewUsersHandler(users, logger)
	roomsHandler := handlers.NewRoomsHandler(rooms, logger)
	meetingsHandler := handlers.NewMeetingsHandler(meetings, users, rooms, outboxRepo, logger)

	readyChecks := []runtime.ReadyCheck{{Name: "db", Check: db.ReadyCheck(pool)}}
	if strings.TrimSpace(kafkaBrokers) != "" {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(kafkaBrokers)})
	}
	mux := runtime.NewBaseMuxWithReady(readyChecks...)

	mux.HandleFunc("/api/v1/schedule/suggestions", scheduleHandler.Suggestions)
	mux.HandleFunc("/api/v1/meetings", meetingsHandler.Create)
	mux.HandleFunc("/api/v1/meetings/{id}", meetingsHandler.ByID)
	mux.HandleFunc("/api/v1/users", usersHandler.Collection)
	mux.HandleFunc("/api/v1/users/{id}", usersHandler.ByID)
	mux.HandleFunc("/api/v1/users/{id}/meetings", usersHandler.Meetings)
	mux.HandleFunc("/api/v1/rooms", roomsHandler.Collection)
	mux.HandleFunc("/api/v1/rooms/{id}", roomsHandler.ByID)
	mux.HandleFunc("/api/v1/rooms/{id}/meetings", roomsHandler.Meetings)

	limitPerMinute := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	var rateLimitMW httpx.Middleware
	if addr := strings.TrimSpace(config.String("REDIS_ADDR", "")); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.String("REDIS_PASSWORD", ""),
			DB:       config.Int("REDIS_DB", 0),
		})
		defer func() { _ = rdb.Close() }()

		rl := httpx.NewRedisRateLimiter(rdb, limitPerMinute, time.Minute, config.String("RATE_LIMIT_PREFIX", "rl"))
		rateLimitMW = rl.Middleware(logger, isTruthy(config.String("RATE_LIMIT_FAIL_OPEN", "true")))
		logger.Info("rate limiting enabled (redis)", "per_minute", limitPerMinute, "redis_addr", addr)
	} else {
		rl := httpx.NewRateLimiter(limitPerMinute, time.Minute)
		rateLimitMW = rl.Middleware()
		logger.Info("rate limiting enabled (in-memory)", "per_minute", limitPerMinute)
	}

	bodyLimit := int64(config.Int("REQUEST_BODY_LIMIT_BYTES", 1<<20))
	corsOrigins := httpx.SplitList(config.String("CORS_ALLOWED_ORIGINS", ""))

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithRecover(logger),
		httpx.WithAccessLog(logger),
		rateLimitMW,
		httpx.WithBodyLimit(bodyLimit),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type", httpx.RequestIDHeader},
			MaxAge:         10 * time.Minute,
		}),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, service)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}

func isTruthy(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}
