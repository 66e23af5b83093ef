package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"foodorders/cmd"
	"foodorders/internal/adapters/out/changefeed"
	"foodorders/internal/adapters/out/postgres"
	"foodorders/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/labstack/gommon/random"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs := getConfigs()
	if err := configs.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := newLogger(configs.LogLevel)

	var gormDB *gorm.DB
	if configs.StoreBackend == cmd.StoreBackendPostgres {
		gormDB = openDatabase(configs, logger)
	}

	var redisClient *redis.Client
	if configs.FeedBackend == cmd.FeedBackendRedis {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     configs.RedisAddr,
			Password: configs.RedisPassword,
			DB:       configs.RedisDB,
		})
		defer func() {
			_ = redisClient.Close()
		}()
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, redisClient, logger)
	if err != nil {
		log.Fatalf("failed to wire application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = app.Start(ctx); err != nil {
		log.Fatalf("failed to start background jobs: %v", err)
	}

	e := echo.New()
	server, err := app.CreateHTTPServer()
	if err != nil {
		log.Fatalf("failed to build http server: %v", err)
	}
	if err = server.Register(ctx, e); err != nil {
		log.Fatalf("failed to register routes: %v", err)
	}

	startWebServer(ctx, e, configs.HTTPPort, logger)
	app.Stop()
	logger.Info("shutdown complete")
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	config := cmd.Config{
		HTTPPort:            goDotEnvVariable("HTTP_PORT", "8080"),
		StoreBackend:        goDotEnvVariable("STORE_BACKEND", cmd.StoreBackendMemory),
		DBHost:              goDotEnvVariable("DB_HOST", "localhost"),
		DBPort:              goDotEnvVariable("DB_PORT", "5432"),
		DBUser:              goDotEnvVariable("DB_USER", "postgres"),
		DBPassword:          goDotEnvVariable("DB_PASSWORD", "postgres"),
		DBName:              goDotEnvVariable("DB_NAME", "foodorders"),
		DBSslMode:           goDotEnvVariable("DB_SSLMODE", "disable"),
		FeedBackend:         goDotEnvVariable("FEED_BACKEND", cmd.FeedBackendMemory),
		FeedMailboxSize:     goDotEnvInt("FEED_MAILBOX_SIZE", changefeed.DefaultMailboxSize),
		RedisAddr:           goDotEnvVariable("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       goDotEnvVariable("REDIS_PASSWORD", ""),
		RedisDB:             goDotEnvInt("REDIS_DB", 0),
		RedisChannel:        goDotEnvVariable("REDIS_CHANNEL", changefeed.DefaultChannel),
		TransitionPolicy:    goDotEnvVariable("ORDER_TRANSITION_POLICY", "permissive"),
		OperatorUsername:    goDotEnvVariable("OPERATOR_USERNAME", "admin"),
		OperatorPassword:    goDotEnvVariable("OPERATOR_PASSWORD", "admin123"),
		JWTSecret:           goDotEnvVariable("JWT_SECRET", ""),
		OperatorSessionTTL:  goDotEnvDuration("OPERATOR_SESSION_TTL", 12*time.Hour),
		CartIdleTTL:         goDotEnvDuration("CART_IDLE_TTL", 2*time.Hour),
		NotificationWorkers: goDotEnvInt("NOTIFICATION_WORKERS", jobs.DefaultNotificationWorkers),
		ResendAPIKey:        goDotEnvVariable("RESEND_API_KEY", ""),
		ResendFrom:          goDotEnvVariable("RESEND_FROM", "orders@example.com"),
		TwilioAccountSID:    goDotEnvVariable("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:     goDotEnvVariable("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber:    goDotEnvVariable("TWILIO_FROM_NUMBER", ""),
		LogLevel:            goDotEnvVariable("LOG_LEVEL", "info"),
	}
	if config.JWTSecret == "" {
		config.JWTSecret = random.String(32)
		log.Warn("JWT_SECRET is not set, operator sessions end with this process")
	}
	return config
}

func goDotEnvVariable(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func goDotEnvInt(key string, def int) int {
	raw := goDotEnvVariable(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("%s must be an integer: %v", key, err)
	}
	return v
}

func goDotEnvDuration(key string, def time.Duration) time.Duration {
	raw := goDotEnvVariable(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("%s must be a duration like 30m: %v", key, err)
	}
	return v
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}

func openDatabase(configs cmd.Config, logger *slog.Logger) *gorm.DB {
	gormDB, err := postgres.Open(configs.DSN())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	logger.Info("database ready", "host", configs.DBHost, "name", configs.DBName)
	return gormDB
}

func startWebServer(ctx context.Context, e *echo.Echo, port string, logger *slog.Logger) {
	// No write timeout: the event streams stay open until the client leaves or ctx ends.
	e.Server.ReadHeaderTimeout = 5 * time.Second
	e.Server.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(fmt.Sprintf("0.0.0.0:%s", port))
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", "error", err)
		}
	}
}
