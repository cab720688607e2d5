package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix = "PETPROFILES"

	DefaultHeaderName     = "X-API-Key"
	DefaultMaxUploadBytes = 5 * 1024 * 1024
	DefaultSignedURLTTL   = time.Hour
)

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// AuthConfig holds the shared-secret credential.
type AuthConfig struct {
	APIKey     string `mapstructure:"api_key"`
	HeaderName string `mapstructure:"header_name"`
}

// DatabaseConfig holds the relational store settings.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// S3Config addresses an S3-compatible endpoint (MinIO, AWS S3, ...).
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// GCSConfig addresses Google Cloud Storage.
type GCSConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// StorageConfig selects and configures the blob store.
type StorageConfig struct {
	Provider      string    `mapstructure:"provider"`
	Container     string    `mapstructure:"container"`
	PublicBaseURL string    `mapstructure:"public_base_url"`
	S3            S3Config  `mapstructure:"s3"`
	GCS           GCSConfig `mapstructure:"gcs"`
}

// ImagesConfig holds upload policy and URL shaping.
type ImagesConfig struct {
	ProxyBasePath  string        `mapstructure:"proxy_base_path"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	SignedURLTTL   time.Duration `mapstructure:"signed_url_ttl"`
}

// EventsConfig holds the lifecycle event sink. No brokers disables it.
type EventsConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// CORSConfig holds the allowed origins.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig overrides the environment's default level.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ServiceConfig is built once at startup and treated as read-only afterwards.
type ServiceConfig struct {
	AppEnv   string         `mapstructure:"app_env"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Images   ImagesConfig   `mapstructure:"images"`
	Events   EventsConfig   `mapstructure:"events"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
}

// IsDevelopment reports whether the service runs in development mode.
func (c *ServiceConfig) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

// Load reads configuration from .env, an optional config.yaml and
// PETPROFILES_* environment variables, in increasing precedence.
func Load() (*ServiceConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper applies defaults and env bindings to v and decodes the result.
func FromViper(v *viper.Viper) (*ServiceConfig, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var cfg ServiceConfig
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")

	v.SetDefault("http.port", ":8080")
	v.SetDefault("http.read_timeout", "15s")
	v.SetDefault("http.write_timeout", "15s")
	v.SetDefault("http.idle_timeout", "60s")

	v.SetDefault("auth.api_key", "")
	v.SetDefault("auth.header_name", DefaultHeaderName)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.migrations_dir", "migrations")

	v.SetDefault("storage.provider", "s3")
	v.SetDefault("storage.container", "pet-images")
	v.SetDefault("storage.public_base_url", "")
	v.SetDefault("storage.s3.endpoint", "localhost:9000")
	v.SetDefault("storage.s3.access_key", "")
	v.SetDefault("storage.s3.secret_key", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.use_ssl", false)
	v.SetDefault("storage.gcs.project_id", "")
	v.SetDefault("storage.gcs.credentials_file", "")

	v.SetDefault("images.proxy_base_path", "/api/v1/images/")
	v.SetDefault("images.max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("images.signed_url_ttl", DefaultSignedURLTTL.String())

	v.SetDefault("events.brokers", []string{})
	v.SetDefault("events.topic", "petprofiles.events")

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "")
}

func (c *ServiceConfig) validate() error {
	if strings.TrimSpace(c.Auth.APIKey) == "" {
		return errors.New("auth.api_key is required")
	}
	if strings.TrimSpace(c.Auth.HeaderName) == "" {
		return errors.New("auth.header_name must not be empty")
	}

	switch c.Database.Driver {
	case "postgres":
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for the postgres driver")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}

	switch c.Storage.Provider {
	case "s3", "gcs", "memory":
	default:
		return fmt.Errorf("unknown storage.provider %q", c.Storage.Provider)
	}
	if c.Storage.Container == "" {
		return errors.New("storage.container is required")
	}

	if c.Images.MaxUploadBytes <= 0 {
		return errors.New("images.max_upload_bytes must be positive")
	}
	if c.Images.SignedURLTTL <= 0 {
		c.Images.SignedURLTTL = DefaultSignedURLTTL
	}

	// An empty broker string from the environment decodes as [""].
	brokers := c.Events.Brokers[:0]
	for _, b := range c.Events.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	c.Events.Brokers = brokers
	return nil
}
