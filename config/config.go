package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Store     StoreConfig     `mapstructure:"store"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// PipelineConfig holds batch input/output configuration
type PipelineConfig struct {
	InputCSV     string `mapstructure:"input_csv"`
	ExportDir    string `mapstructure:"export_dir"`
	ExportPrefix string `mapstructure:"export_prefix"`
}

// MatchingConfig holds cross-platform matcher configuration
type MatchingConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	RequireBrandMatch   bool    `mapstructure:"require_brand_match"`
	WeightTolerance     float64 `mapstructure:"weight_tolerance"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	PerIP float64 `mapstructure:"per_ip"` // requests per second
	Burst int     `mapstructure:"burst"`
}

// StoreConfig holds run persistence configuration
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "none" or "sqlite"
	DSN    string `mapstructure:"dsn"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricelens/")

	// Environment variable settings
	v.SetEnvPrefix("PRICELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Pipeline defaults
	v.SetDefault("pipeline.input_csv", "data/products.csv")
	v.SetDefault("pipeline.export_dir", ".")
	v.SetDefault("pipeline.export_prefix", "processed")

	// Matching defaults
	v.SetDefault("matching.similarity_threshold", 0.7)
	v.SetDefault("matching.require_brand_match", true)
	v.SetDefault("matching.weight_tolerance", 0.1)

	// Cache defaults
	v.SetDefault("cache.ttl", "15m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 10.0)
	v.SetDefault("ratelimit.burst", 20)

	// Store defaults
	v.SetDefault("store.driver", "none")
	v.SetDefault("store.dsn", "pricelens.db")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// validate validates the configuration. Bad matcher settings invalidate every
// downstream decision, so they are rejected here rather than mid-run.
func validate(config *Config) error {
	if t := config.Matching.SimilarityThreshold; t < 0 || t > 1 {
		return fmt.Errorf("matching.similarity_threshold must be in [0,1], got: %v", t)
	}

	if wt := config.Matching.WeightTolerance; wt <= 0 || wt > 1 {
		return fmt.Errorf("matching.weight_tolerance must be in (0,1], got: %v", wt)
	}

	if config.RateLimit.PerIP <= 0 || config.RateLimit.Burst <= 0 {
		return fmt.Errorf("ratelimit.per_ip and ratelimit.burst must be positive")
	}

	if d := config.Store.Driver; d != "none" && d != "sqlite" {
		return fmt.Errorf("store driver must be 'none' or 'sqlite', got: %s", d)
	}

	if config.Store.Driver == "sqlite" && config.Store.DSN == "" {
		return fmt.Errorf("store DSN is required when store driver is 'sqlite'")
	}

	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)

	return nil
}
