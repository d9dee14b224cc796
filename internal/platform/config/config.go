package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	FanoutBroadcast = "broadcast"
	FanoutShared    = "shared"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	LogLevel    slog.Level
	LogFormat   string

	DatabaseDriver string
	DatabaseURL    string
	RunMigrations  bool

	SecretKey         string
	Algorithm         string
	AccessTokenExpiry time.Duration
	DemoUsername      string
	DemoPassword      string

	EventQueueCapacity      int
	EventPublishTimeout     time.Duration
	EventReceiveTimeout     time.Duration
	StreamFanout            string
	SubscriberQueueCapacity int

	ShutdownTimeout time.Duration
}

var defaults = map[string]any{
	"SERVICE_NAME":                "bookshelf",
	"HTTP_PORT":                   "8080",
	"LOG_LEVEL":                   "info",
	"LOG_FORMAT":                  "json",
	"DATABASE_DRIVER":             DriverSQLite,
	"DATABASE_URL":                "books.db",
	"RUN_MIGRATIONS":              true,
	"SECRET_KEY":                  "secret_key",
	"ALGORITHM":                   "HS256",
	"ACCESS_TOKEN_EXPIRE_MINUTES": 30,
	"DEMO_USERNAME":               "admin",
	"DEMO_PASSWORD":               "admin123",
	"EVENT_QUEUE_CAPACITY":        100,
	"EVENT_PUBLISH_TIMEOUT":       "2s",
	"EVENT_RECEIVE_TIMEOUT":       "10s",
	"STREAM_FANOUT":               FanoutBroadcast,
	"SUBSCRIBER_QUEUE_CAPACITY":   100,
	"SHUTDOWN_TIMEOUT":            "10s",
}

// Load reads the environment, layered over an optional dotenv file named by
// ENV_FILE (default ".env").
func Load() (Config, error) {
	path := strings.TrimSpace(os.Getenv("ENV_FILE"))
	if path == "" {
		path = ".env"
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit dotenv path. A missing file is not an
// error; real environment variables always win over the file.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	cfg := Config{
		ServiceName: strings.TrimSpace(v.GetString("SERVICE_NAME")),
		HTTPPort:    strings.TrimSpace(v.GetString("HTTP_PORT")),
		LogLevel:    level,
		LogFormat:   strings.ToLower(strings.TrimSpace(v.GetString("LOG_FORMAT"))),

		DatabaseDriver: strings.ToLower(strings.TrimSpace(v.GetString("DATABASE_DRIVER"))),
		DatabaseURL:    strings.TrimSpace(v.GetString("DATABASE_URL")),
		RunMigrations:  v.GetBool("RUN_MIGRATIONS"),

		SecretKey:         v.GetString("SECRET_KEY"),
		Algorithm:         strings.ToUpper(strings.TrimSpace(v.GetString("ALGORITHM"))),
		AccessTokenExpiry: time.Duration(v.GetInt("ACCESS_TOKEN_EXPIRE_MINUTES")) * time.Minute,
		DemoUsername:      v.GetString("DEMO_USERNAME"),
		DemoPassword:      v.GetString("DEMO_PASSWORD"),

		EventQueueCapacity:      v.GetInt("EVENT_QUEUE_CAPACITY"),
		EventPublishTimeout:     v.GetDuration("EVENT_PUBLISH_TIMEOUT"),
		EventReceiveTimeout:     v.GetDuration("EVENT_RECEIVE_TIMEOUT"),
		StreamFanout:            strings.ToLower(strings.TrimSpace(v.GetString("STREAM_FANOUT"))),
		SubscriberQueueCapacity: v.GetInt("SUBSCRIBER_QUEUE_CAPACITY"),

		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.ServiceName == "" {
		errs = append(errs, errors.New("SERVICE_NAME must not be empty"))
	}
	if c.HTTPPort == "" {
		errs = append(errs, errors.New("HTTP_PORT must not be empty"))
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q must be json or text", c.LogFormat))
	}
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("DATABASE_URL is required for driver %s", c.DatabaseDriver))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER %q must be sqlite, postgres or memory", c.DatabaseDriver))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY must not be empty"))
	}
	switch c.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("ALGORITHM %q is not supported", c.Algorithm))
	}
	if c.AccessTokenExpiry <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if c.DemoUsername == "" || c.DemoPassword == "" {
		errs = append(errs, errors.New("DEMO_USERNAME and DEMO_PASSWORD must not be empty"))
	}
	if c.EventQueueCapacity <= 0 {
		errs = append(errs, errors.New("EVENT_QUEUE_CAPACITY must be positive"))
	}
	if c.SubscriberQueueCapacity <= 0 {
		errs = append(errs, errors.New("SUBSCRIBER_QUEUE_CAPACITY must be positive"))
	}
	if c.EventPublishTimeout <= 0 || c.EventReceiveTimeout <= 0 {
		errs = append(errs, errors.New("EVENT_PUBLISH_TIMEOUT and EVENT_RECEIVE_TIMEOUT must be positive"))
	}
	switch c.StreamFanout {
	case FanoutBroadcast, FanoutShared:
	default:
		errs = append(errs, fmt.Errorf("STREAM_FANOUT %q must be broadcast or shared", c.StreamFanout))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// NewLogger builds the process logger described by LogFormat and LogLevel.
func (c Config) NewLogger(out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	var handler slog.Handler
	if c.LogFormat == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	return slog.New(handler)
}
