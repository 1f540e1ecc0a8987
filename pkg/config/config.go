// Package config loads settings from defaults, an optional config file and
// STOCKCOUNT_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. STOCKCOUNT_HTTP_ADDR.
const EnvPrefix = "STOCKCOUNT"

// Backend kinds.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config is the resolved application configuration.
type Config struct {
	HTTP    HTTP
	Log     Log
	Storage Storage
	Tracing Tracing
	Export  Export
	Scan    Scan
}

type HTTP struct {
	Addr    string
	TLSCert string
	TLSKey  string
}

type Log struct {
	Level  string
	Format string
}

type Storage struct {
	Backend     string
	SQLitePath  string
	PostgresDSN string
	RedisAddr   string
	RedisPrefix string
}

type Tracing struct {
	Host        string
	Probability float64
}

type Export struct {
	Dir        string
	S3Bucket   string
	S3Region   string
	S3Endpoint string
	S3Prefix   string
	PathStyle  bool
}

type Scan struct {
	Interval time.Duration
	// DigitsOnly selects the digits-only EAN normalization.
	DigitsOnly bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8443")
	v.SetDefault("http.tls_cert", "")
	v.SetDefault("http.tls_key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.sqlite_path", "stockcount.db")
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.redis_prefix", "stockcount:")
	v.SetDefault("tracing.host", "")
	v.SetDefault("tracing.probability", 1.0)
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.s3_bucket", "")
	v.SetDefault("export.s3_region", "")
	v.SetDefault("export.s3_endpoint", "")
	v.SetDefault("export.s3_prefix", "")
	v.SetDefault("export.path_style", false)
	v.SetDefault("scan.interval", 150*time.Millisecond)
	v.SetDefault("scan.digits_only", false)
}

// New returns a viper instance with defaults and environment binding.
// A non-empty file is read as the config file.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if file = strings.TrimSpace(file); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	return v, nil
}

// FromViper resolves a Config and validates the backend kind.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		HTTP: HTTP{
			Addr:    v.GetString("http.addr"),
			TLSCert: v.GetString("http.tls_cert"),
			TLSKey:  v.GetString("http.tls_key"),
		},
		Log: Log{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Storage: Storage{
			Backend:     strings.ToLower(strings.TrimSpace(v.GetString("storage.backend"))),
			SQLitePath:  v.GetString("storage.sqlite_path"),
			PostgresDSN: v.GetString("storage.postgres_dsn"),
			RedisAddr:   v.GetString("storage.redis_addr"),
			RedisPrefix: v.GetString("storage.redis_prefix"),
		},
		Tracing: Tracing{
			Host:        v.GetString("tracing.host"),
			Probability: v.GetFloat64("tracing.probability"),
		},
		Export: Export{
			Dir:        v.GetString("export.dir"),
			S3Bucket:   v.GetString("export.s3_bucket"),
			S3Region:   v.GetString("export.s3_region"),
			S3Endpoint: v.GetString("export.s3_endpoint"),
			S3Prefix:   v.GetString("export.s3_prefix"),
			PathStyle:  v.GetBool("export.path_style"),
		},
		Scan: Scan{
			Interval:   v.GetDuration("scan.interval"),
			DigitsOnly: v.GetBool("scan.digits_only"),
		},
	}
	switch cfg.Storage.Backend {
	case BackendMemory, BackendSQLite, BackendRedis:
	case BackendPostgres:
		if cfg.Storage.PostgresDSN == "" {
			return Config{}, fmt.Errorf("storage.postgres_dsn required for postgres backend")
		}
	default:
		return Config{}, fmt.Errorf("unknown storage.backend: %s", cfg.Storage.Backend)
	}
	return cfg, nil
}

// Load is New followed by FromViper.
func Load(file string) (Config, error) {
	v, err := New(file)
	if err != nil {
		return Config{}, err
	}
	return FromViper(v)
}
