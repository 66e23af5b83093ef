package cmd

import (
	"fmt"
	"net/url"
	"time"
)

const (
	StoreBackendMemory   = "memory"
	StoreBackendPostgres = "postgres"
	FeedBackendMemory    = "memory"
	FeedBackendRedis     = "redis"
)

type Config struct {
	HTTPPort string

	StoreBackend string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSslMode    string

	FeedBackend     string
	FeedMailboxSize int
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RedisChannel    string

	TransitionPolicy string

	OperatorUsername   string
	OperatorPassword   string
	JWTSecret          string
	OperatorSessionTTL time.Duration

	CartIdleTTL time.Duration

	NotificationWorkers int
	ResendAPIKey        string
	ResendFrom          string
	TwilioAccountSID    string
	TwilioAuthToken     string
	TwilioFromNumber    string

	LogLevel string
}

// DSN is the postgres connection URL built from the DB_* settings.
func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%s", c.DBHost, c.DBPort),
		Path:     c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSslMode}}.Encode(),
	}
	return u.String()
}

func (c Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendMemory, StoreBackendPostgres:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreBackendMemory, StoreBackendPostgres, c.StoreBackend)
	}
	switch c.FeedBackend {
	case FeedBackendMemory, FeedBackendRedis:
	default:
		return fmt.Errorf("FEED_BACKEND must be %q or %q, got %q", FeedBackendMemory, FeedBackendRedis, c.FeedBackend)
	}
	if c.CartIdleTTL <= 0 {
		return fmt.Errorf("CART_IDLE_TTL must be positive, got %s", c.CartIdleTTL)
	}
	return nil
}
