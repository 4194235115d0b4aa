// Package config loads agent and upstream settings with viper:
// defaults, then the YAML file, then COURTSIDE_* environment variables,
// then command line flags.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/iudanet/courtside/internal/logging"
	"github.com/iudanet/courtside/internal/validation"
)

// EnvPrefix is the prefix of environment overrides, e.g. COURTSIDE_SERVER_URL
const EnvPrefix = "COURTSIDE"

// ErrInvalidConfig indicates a setting outside of its allowed range
var ErrInvalidConfig = errors.New("invalid config")

// ServerConfig - адрес upstream
type ServerConfig struct {
	URL string `mapstructure:"url"`
}

// AgentConfig - локальный агент
type AgentConfig struct {
	Listen    string `mapstructure:"listen"`
	DBPath    string `mapstructure:"db_path"`
	APIPrefix string `mapstructure:"api_prefix"`
}

// SyncConfig - параметры Sync Manager и фоновых триггеров
type SyncConfig struct {
	Interval           time.Duration `mapstructure:"interval"`
	RetryInterval      time.Duration `mapstructure:"retry_interval"`
	MinTriggerInterval time.Duration `mapstructure:"min_trigger_interval"`
	Retention          time.Duration `mapstructure:"retention"`
	BackoffBase        time.Duration `mapstructure:"backoff_base"`
	BackoffMax         time.Duration `mapstructure:"backoff_max"`
}

// ConnectivityConfig - опрос health endpoint
type ConnectivityConfig struct {
	ProbeInterval time.Duration `mapstructure:"probe_interval"`
	ProbeTimeout  time.Duration `mapstructure:"probe_timeout"`
}

// CacheConfig - кэш ответов
type CacheConfig struct {
	Version        string        `mapstructure:"version"`
	DynamicTimeout time.Duration `mapstructure:"dynamic_timeout"`
}

// LogConfig - вывод логов
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Logging converts the section into logging.Config
func (c LogConfig) Logging() logging.Config {
	return logging.Config{
		Level:      c.Level,
		Format:     c.Format,
		File:       c.File,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// Config is the agent configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Agent        AgentConfig        `mapstructure:"agent"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Log          LogConfig          `mapstructure:"log"`
	Sync         SyncConfig         `mapstructure:"sync"`
	Connectivity ConnectivityConfig `mapstructure:"connectivity"`
}

// Значения по умолчанию
var agentDefaults = map[string]any{
	"server.url":                  "http://localhost:8080",
	"agent.listen":                "127.0.0.1:7070",
	"agent.db_path":               "courtside.db",
	"agent.api_prefix":            "/api/",
	"sync.interval":               5 * time.Minute,
	"sync.retry_interval":         2 * time.Second,
	"sync.min_trigger_interval":   2 * time.Second,
	"sync.retention":              7 * 24 * time.Hour,
	"sync.backoff_base":           2 * time.Second,
	"sync.backoff_max":            5 * time.Minute,
	"connectivity.probe_interval": 10 * time.Second,
	"connectivity.probe_timeout":  3 * time.Second,
	"cache.version":               "1",
	"cache.dynamic_timeout":       5 * time.Second,
	"log.level":                   "info",
	"log.format":                  logging.FormatText,
	"log.file":                    "",
	"log.max_size_mb":             50,
	"log.max_backups":             3,
	"log.max_age_days":            28,
	"log.compress":                false,
}

// agentFlags связывает имена флагов cobra с ключами конфигурации
var agentFlags = map[string]string{
	"server":     "server.url",
	"db":         "agent.db_path",
	"listen":     "agent.listen",
	"log-level":  "log.level",
	"log-format": "log.format",
	"log-file":   "log.file",
}

// Loader reads one configuration source set and can watch its file
type Loader struct {
	v *viper.Viper
}

// NewLoader prepares a loader for the agent. configFile may be empty: then
// courtside.yaml is searched in the working directory and $HOME/.courtside.
// Flags that are set override every other source.
func NewLoader(configFile string, flags *pflag.FlagSet) (*Loader, error) {
	return newLoader(configFile, "courtside", agentDefaults, agentFlags, flags)
}

func newLoader(configFile, name string, defaults map[string]any, flagKeys map[string]string, flags *pflag.FlagSet) (*Loader, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/." + name)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for flagName, key := range flagKeys {
			flag := flags.Lookup(flagName)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flagName, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Файл не обязателен, если путь не задан явно
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return &Loader{v: v}, nil
}

// ConfigFileUsed returns the path of the loaded file, or "" when defaults are used
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Load decodes and validates the agent configuration
func (l *Loader) Load() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section
func (c *Config) Validate() error {
	if err := validation.ValidateServerURL(c.Server.URL); err != nil {
		return fmt.Errorf("%w: server.url: %w", ErrInvalidConfig, err)
	}
	if c.Agent.Listen == "" {
		return fmt.Errorf("%w: agent.listen is required", ErrInvalidConfig)
	}
	if c.Agent.DBPath == "" {
		return fmt.Errorf("%w: agent.db_path is required", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.Agent.APIPrefix, "/") {
		return fmt.Errorf("%w: agent.api_prefix must start with '/'", ErrInvalidConfig)
	}
	if err := validation.ValidateCacheVersion(c.Cache.Version); err != nil {
		return fmt.Errorf("%w: cache.version: %w", ErrInvalidConfig, err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalidConfig, err)
	}
	if c.Log.Format != logging.FormatText && c.Log.Format != logging.FormatJSON {
		return fmt.Errorf("%w: log.format must be %s or %s", ErrInvalidConfig, logging.FormatText, logging.FormatJSON)
	}

	durations := map[string]time.Duration{
		"sync.interval":               c.Sync.Interval,
		"sync.retry_interval":         c.Sync.RetryInterval,
		"sync.retention":              c.Sync.Retention,
		"sync.backoff_base":           c.Sync.BackoffBase,
		"sync.backoff_max":            c.Sync.BackoffMax,
		"connectivity.probe_interval": c.Connectivity.ProbeInterval,
		"connectivity.probe_timeout":  c.Connectivity.ProbeTimeout,
		"cache.dynamic_timeout":       c.Cache.DynamicTimeout,
	}
	for key, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidConfig, key, d)
		}
	}
	if c.Sync.MinTriggerInterval < 0 {
		return fmt.Errorf("%w: sync.min_trigger_interval must not be negative", ErrInvalidConfig)
	}
	if c.Sync.BackoffMax < c.Sync.BackoffBase {
		return fmt.Errorf("%w: sync.backoff_max is below sync.backoff_base", ErrInvalidConfig)
	}

	return nil
}

// WatchCacheVersion calls fn with the new cache.version whenever the config
// file changes it. It blocks until ctx is done. Without a config file there
// is nothing to watch and it returns immediately.
func (l *Loader) WatchCacheVersion(ctx context.Context, logger *slog.Logger, fn func(version string)) error {
	if l.v.ConfigFileUsed() == "" {
		logger.Debug("No config file, cache version watch disabled")
		return nil
	}

	changes := make(chan string, 1)
	current := l.v.GetString("cache.version")

	l.v.OnConfigChange(func(e fsnotify.Event) {
		version := l.v.GetString("cache.version")
		logger.Debug("Config file changed", "file", e.Name, "op", e.Op.String(), "cache_version", version)

		if version == current {
			return
		}
		if err := validation.ValidateCacheVersion(version); err != nil {
			logger.Warn("Ignoring staged cache version", "version", version, "error", err)
			return
		}
		current = version

		// Сохраняем только последнюю версию
		select {
		case <-changes:
		default:
		}
		changes <- version
	})
	l.v.WatchConfig()

	logger.Info("Watching config file", "file", l.v.ConfigFileUsed())

	for {
		select {
		case <-ctx.Done():
			return nil
		case version := <-changes:
			logger.Info("New cache version staged", "version", version)
			fn(version)
		}
	}
}
