package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/types"
)

// Configuration is the full runtime configuration, loaded from
// config files and TIERFORGE_* environment variables.
type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Gateway    GatewayConfig    `mapstructure:"gateway"`
	Cache      CacheConfig      `mapstructure:"cache"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

type LoggingConfig struct {
	Level          types.LogLevel `mapstructure:"level"`
	FluentdEnabled bool           `mapstructure:"fluentd_enabled"`
	FluentdHost    string         `mapstructure:"fluentd_host"`
	FluentdPort    int            `mapstructure:"fluentd_port"`
}

type StorageConfig struct {
	// Type selects the repository backend: "memory" or "file".
	Type string `mapstructure:"type"`
	// Dir is the root directory for the file backend; each entity is one
	// JSON document at {dir}/{entity}/{id}.json.
	Dir string `mapstructure:"dir"`
}

type GatewayConfig struct {
	// Backend selects the gateway implementation: "simulated" or "http".
	Backend string `mapstructure:"backend"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	// Timeout bounds every gateway call.
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxRetries bounds retry attempts for transient gateway failures.
	MaxRetries int `mapstructure:"max_retries"`
	// InitialBackoff seeds the exponential backoff between attempts.
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
}

type CacheConfig struct {
	Type string        `mapstructure:"type"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// NewConfig loads configuration from ./config/config.yaml (optional) and
// the environment.
func NewConfig() (*Configuration, error) {
	v := viper.New()

	// .env is optional and only used for local development
	_ = godotenv.Load()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TIERFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Failed to read configuration file").
				Mark(ierr.ErrSystem)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to unmarshal configuration").
			Mark(ierr.ErrSystem)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.RunModeServer)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("logging.fluentd_enabled", false)
	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.dir", "./data")
	v.SetDefault("gateway.backend", "simulated")
	v.SetDefault("gateway.timeout", 30*time.Second)
	v.SetDefault("gateway.max_retries", 3)
	v.SetDefault("gateway.initial_backoff", 500*time.Millisecond)
	v.SetDefault("cache.type", "inmemory")
	v.SetDefault("cache.ttl", 5*time.Minute)
}

// GetDefaultConfig returns the configuration used by scripts and tests.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.RunModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Storage:    StorageConfig{Type: "memory", Dir: "./data"},
		Gateway: GatewayConfig{
			Backend:        "simulated",
			Timeout:        30 * time.Second,
			MaxRetries:     3,
			InitialBackoff: 10 * time.Millisecond,
		},
		Cache: CacheConfig{Type: "inmemory", TTL: 5 * time.Minute},
	}
}

// Validate checks the configuration for impossible combinations.
func (c *Configuration) Validate() error {
	if c.Storage.Type != "memory" && c.Storage.Type != "file" {
		return ierr.NewErrorf("invalid storage type: %s", c.Storage.Type).
			WithHint("Storage type must be memory or file").
			Mark(ierr.ErrValidation)
	}
	if c.Storage.Type == "file" && c.Storage.Dir == "" {
		return ierr.NewError("storage dir is required for file storage").
			WithHint("Set storage.dir when storage.type is file").
			Mark(ierr.ErrValidation)
	}
	if c.Gateway.Backend != "simulated" && c.Gateway.Backend != "http" {
		return ierr.NewErrorf("invalid gateway backend: %s", c.Gateway.Backend).
			WithHint("Gateway backend must be simulated or http").
			Mark(ierr.ErrValidation)
	}
	if c.Gateway.Backend == "http" && c.Gateway.BaseURL == "" {
		return ierr.NewError("gateway base_url is required for http backend").
			WithHint("Set gateway.base_url when gateway.backend is http").
			Mark(ierr.ErrValidation)
	}
	if c.Gateway.MaxRetries < 0 {
		return ierr.NewError("gateway max_retries must be non-negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}
