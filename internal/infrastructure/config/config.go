package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	Remote    RemoteConfig
	Sync      SyncConfig
	Scheduler SchedulerConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodySize     int64
	TrustedProxies  []string
	AllowOrigins    []string
	RateLimitRPS    float64 // per client, 0 disables
	RateLimitBurst  int
	SwaggerEnabled  bool // serve API docs under /swagger
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres, sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string // sqlite file, ":memory:" for an in-memory database
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	AutoMigrate     bool
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled    bool
	Host       string
	Port       int
	Password   string
	DB         int
	SummaryTTL time.Duration
}

// Addr returns host:port
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds bearer token settings for the API
type JWTConfig struct {
	Enabled bool
	Secret  string
	Issuer  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// RemoteConfig holds the catalog proxy settings and the default store
// credentials used by scheduled runs
type RemoteConfig struct {
	ProxyURL          string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	Endpoint          string
	Key               string
	Secret            string
	APIVersion        string
	UseTLS            bool
}

// SyncConfig holds pipeline tuning and default run options
type SyncConfig struct {
	PreviewPageSize   int
	FullPageSize      int
	ProgressInterval  int
	ErrorSummaryLimit int
	FinalizeRetries   int
	FinalizeBackoff   time.Duration
	Defaults          SyncDefaults
}

// SyncDefaults are the options used when a run does not supply its own
type SyncDefaults struct {
	UpdateExisting bool
	CreateNew      bool
	SyncStockOnly  bool
	ImportImages   bool
	Mode           string
	BlankSKUPolicy string
}

// SchedulerConfig holds the periodic sync trigger settings
type SchedulerConfig struct {
	Enabled  bool
	Interval time.Duration
	Timeout  time.Duration
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	MetricsEnabled    bool
	MetricsInterval   time.Duration
	LogsEnabled       bool
	// Database tracing options
	DBTraceEnabled    bool          // Enable database query tracing (otelgorm)
	DBLogFullSQL      bool          // Log full SQL statements (dev only)
	DBSlowQueryThresh time.Duration // Slow query threshold for warnings (default: 200ms)
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with CATALOGSYNC_ prefix (e.g., CATALOGSYNC_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("CATALOGSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Boolean defaults that must be true unless explicitly disabled
	v.SetDefault("sync.defaults.update_existing", true)
	v.SetDefault("sync.defaults.create_new", true)
	v.SetDefault("sync.defaults.import_images", true)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			IdleTimeout:     v.GetDuration("http.idle_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
			MaxBodySize:     v.GetInt64("http.max_body_size"),
			TrustedProxies:  v.GetStringSlice("http.trusted_proxies"),
			AllowOrigins:    v.GetStringSlice("http.allow_origins"),
			RateLimitRPS:    v.GetFloat64("http.rate_limit_rps"),
			RateLimitBurst:  v.GetInt("http.rate_limit_burst"),
			SwaggerEnabled:  v.GetBool("http.swagger_enabled"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			Path:            v.GetString("database.path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			AutoMigrate:     v.GetBool("database.auto_migrate"),
		},
		Redis: RedisConfig{
			Enabled:    v.GetBool("redis.enabled"),
			Host:       v.GetString("redis.host"),
			Port:       v.GetInt("redis.port"),
			Password:   v.GetString("redis.password"),
			DB:         v.GetInt("redis.db"),
			SummaryTTL: v.GetDuration("redis.summary_ttl"),
		},
		JWT: JWTConfig{
			Enabled: v.GetBool("jwt.enabled"),
			Secret:  v.GetString("jwt.secret"),
			Issuer:  v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Remote: RemoteConfig{
			ProxyURL:          v.GetString("remote.proxy_url"),
			Timeout:           v.GetDuration("remote.timeout"),
			RequestsPerSecond: v.GetFloat64("remote.requests_per_second"),
			Burst:             v.GetInt("remote.burst"),
			Endpoint:          v.GetString("remote.endpoint"),
			Key:               v.GetString("remote.key"),
			Secret:            v.GetString("remote.secret"),
			APIVersion:        v.GetString("remote.api_version"),
			UseTLS:            v.GetBool("remote.use_tls"),
		},
		Sync: SyncConfig{
			PreviewPageSize:   v.GetInt("sync.preview_page_size"),
			FullPageSize:      v.GetInt("sync.full_page_size"),
			ProgressInterval:  v.GetInt("sync.progress_interval"),
			ErrorSummaryLimit: v.GetInt("sync.error_summary_limit"),
			FinalizeRetries:   v.GetInt("sync.finalize_retries"),
			FinalizeBackoff:   v.GetDuration("sync.finalize_backoff"),
			Defaults: SyncDefaults{
				UpdateExisting: v.GetBool("sync.defaults.update_existing"),
				CreateNew:      v.GetBool("sync.defaults.create_new"),
				SyncStockOnly:  v.GetBool("sync.defaults.sync_stock_only"),
				ImportImages:   v.GetBool("sync.defaults.import_images"),
				Mode:           v.GetString("sync.defaults.mode"),
				BlankSKUPolicy: v.GetString("sync.defaults.blank_sku_policy"),
			},
		},
		Scheduler: SchedulerConfig{
			Enabled:  v.GetBool("scheduler.enabled"),
			Interval: v.GetDuration("scheduler.interval"),
			Timeout:  v.GetDuration("scheduler.timeout"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "catalog-sync"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	// A full run can take minutes, so writes get more room than reads
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 5 * time.Minute
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.HTTP.RateLimitRPS > 0 && cfg.HTTP.RateLimitBurst == 0 {
		cfg.HTTP.RateLimitBurst = 10
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "catalogsync"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "catalogsync.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.SummaryTTL == 0 {
		cfg.Redis.SummaryTTL = 24 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "catalog-sync"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Remote.Timeout == 0 {
		cfg.Remote.Timeout = 60 * time.Second
	}
	if cfg.Remote.RequestsPerSecond == 0 {
		cfg.Remote.RequestsPerSecond = 2
	}
	if cfg.Remote.Burst == 0 {
		cfg.Remote.Burst = 1
	}
	if cfg.Remote.APIVersion == "" {
		cfg.Remote.APIVersion = "wc/v3"
	}
	if cfg.Sync.PreviewPageSize == 0 {
		cfg.Sync.PreviewPageSize = 10
	}
	if cfg.Sync.FullPageSize == 0 {
		cfg.Sync.FullPageSize = 250
	}
	if cfg.Sync.ProgressInterval == 0 {
		cfg.Sync.ProgressInterval = 10
	}
	if cfg.Sync.ErrorSummaryLimit == 0 {
		cfg.Sync.ErrorSummaryLimit = 5
	}
	if cfg.Sync.FinalizeRetries == 0 {
		cfg.Sync.FinalizeRetries = 3
	}
	if cfg.Sync.FinalizeBackoff == 0 {
		cfg.Sync.FinalizeBackoff = 500 * time.Millisecond
	}
	if cfg.Sync.Defaults.Mode == "" {
		cfg.Sync.Defaults.Mode = "full"
	}
	if cfg.Sync.Defaults.BlankSKUPolicy == "" {
		cfg.Sync.Defaults.BlankSKUPolicy = "create"
	}
	if cfg.Scheduler.Interval == 0 {
		cfg.Scheduler.Interval = time.Hour
	}
	if cfg.Scheduler.Timeout == 0 {
		cfg.Scheduler.Timeout = 30 * time.Minute
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "catalog-sync"
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Remote.ProxyURL != "" {
		u, err := url.Parse(c.Remote.ProxyURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("remote.proxy_url must be an absolute URL, got %q", c.Remote.ProxyURL)
		}
	}
	if c.Remote.RequestsPerSecond < 0 {
		return fmt.Errorf("remote.requests_per_second cannot be negative")
	}

	if c.Sync.PreviewPageSize < 0 || c.Sync.FullPageSize < 0 {
		return fmt.Errorf("sync page sizes cannot be negative")
	}
	switch c.Sync.Defaults.Mode {
	case "preview", "full":
	default:
		return fmt.Errorf("sync.defaults.mode must be preview or full, got %q", c.Sync.Defaults.Mode)
	}
	switch c.Sync.Defaults.BlankSKUPolicy {
	case "create", "skip":
	default:
		return fmt.Errorf("sync.defaults.blank_sku_policy must be create or skip, got %q", c.Sync.Defaults.BlankSKUPolicy)
	}

	if c.Scheduler.Enabled {
		if c.Remote.ProxyURL == "" {
			return fmt.Errorf("scheduler.enabled requires remote.proxy_url")
		}
		if c.Remote.Endpoint == "" || c.Remote.Key == "" || c.Remote.Secret == "" {
			return fmt.Errorf("scheduler.enabled requires remote.endpoint, remote.key and remote.secret")
		}
	}

	if c.JWT.Enabled && c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required when jwt.enabled is true")
	}

	if c.App.Env == "production" {
		if c.JWT.Enabled && len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Driver == "postgres" && c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure in traces")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
