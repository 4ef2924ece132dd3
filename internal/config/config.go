package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	BaseURL               string        `mapstructure:"base_url"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	CaseTimeoutSeconds    int64         `mapstructure:"case_timeout_seconds"`
	HTTPDebug             bool          `mapstructure:"http_debug"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	CaseTimeout           time.Duration `mapstructure:"-"`

	CollectionsFile    string        `mapstructure:"collections_file"`
	PublishersFile     string        `mapstructure:"publishers_file"`
	RunIntervalSeconds int64         `mapstructure:"run_interval_seconds"`
	RunInterval        time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// DefaultBaseURL is where the API listens in a local setup.
const DefaultBaseURL = "http://localhost:3030/"

// configKeys lists every key so AutomaticEnv can resolve them during Unmarshal.
var configKeys = []string{
	"app_name", "app_env", "log_level",
	"base_url", "request_timeout_seconds", "case_timeout_seconds", "http_debug",
	"collections_file", "publishers_file", "run_interval_seconds",
	"storage_type", "bbolt_path", "storage_ttl_seconds", "storage_cleanup_interval_seconds",
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "storefront-apitest")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("request_timeout_seconds", 15)
	v.SetDefault("case_timeout_seconds", 30)
	v.SetDefault("http_debug", false)
	v.SetDefault("collections_file", "")
	v.SetDefault("publishers_file", "")
	v.SetDefault("run_interval_seconds", 0) // run once
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/ledger.db")
	v.SetDefault("storage_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64(time.Hour/time.Second))

	v.AutomaticEnv()
	for _, key := range configKeys {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) finalize() error {
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.BaseURL == "" {
		return fmt.Errorf("invalid base_url (must not be empty)")
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	if cfg.CaseTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid case_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	cfg.CaseTimeout = time.Duration(cfg.CaseTimeoutSeconds) * time.Second

	if cfg.RunIntervalSeconds < 0 {
		return fmt.Errorf("invalid run_interval_seconds (must be zero or positive seconds)")
	}
	cfg.RunInterval = time.Duration(cfg.RunIntervalSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return nil
}
