package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/iudanet/courtside/internal/logging"
)

// MinJWTSecretLen - минимальная длина секрета HS256
const MinJWTSecretLen = 32

// UpstreamConfig is the configuration of the reference upstream server
type UpstreamConfig struct {
	Listen     string        `mapstructure:"listen"`
	DBPath     string        `mapstructure:"db_path"`
	JWTSecret  string        `mapstructure:"jwt_secret"`
	Log        LogConfig     `mapstructure:"log"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	RateWindow time.Duration `mapstructure:"rate_window"`
	RateLimit  int           `mapstructure:"rate_limit"`
	DevTokens  bool          `mapstructure:"dev_tokens"`
}

type upstreamFile struct {
	Upstream UpstreamConfig `mapstructure:"upstream"`
}

var upstreamDefaults = map[string]any{
	"upstream.listen":           ":8080",
	"upstream.db_path":          "courtside-upstream.db",
	"upstream.jwt_secret":       "",
	"upstream.token_ttl":        time.Hour,
	"upstream.rate_limit":       600,
	"upstream.rate_window":      time.Minute,
	"upstream.dev_tokens":       false,
	"upstream.log.level":        "info",
	"upstream.log.format":       logging.FormatText,
	"upstream.log.file":         "",
	"upstream.log.max_size_mb":  50,
	"upstream.log.max_backups":  3,
	"upstream.log.max_age_days": 28,
	"upstream.log.compress":     false,
}

var upstreamFlags = map[string]string{
	"listen":     "upstream.listen",
	"db":         "upstream.db_path",
	"jwt-secret": "upstream.jwt_secret",
	"dev-tokens": "upstream.dev_tokens",
	"log-level":  "upstream.log.level",
	"log-format": "upstream.log.format",
	"log-file":   "upstream.log.file",
}

// LoadUpstream reads the upstream server configuration from the same
// sources as the agent. The file lives under the "upstream" key.
func LoadUpstream(configFile string, flags *pflag.FlagSet) (*UpstreamConfig, error) {
	l, err := newLoader(configFile, "courtside-upstream", upstreamDefaults, upstreamFlags, flags)
	if err != nil {
		return nil, err
	}

	var file upstreamFile
	if err := l.v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg := file.Upstream
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the upstream settings
func (c *UpstreamConfig) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("%w: upstream.listen is required", ErrInvalidConfig)
	}
	if c.DBPath == "" {
		return fmt.Errorf("%w: upstream.db_path is required", ErrInvalidConfig)
	}
	if len(c.JWTSecret) < MinJWTSecretLen {
		return fmt.Errorf("%w: upstream.jwt_secret must be at least %d characters", ErrInvalidConfig, MinJWTSecretLen)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: upstream.token_ttl must be positive", ErrInvalidConfig)
	}
	if c.RateLimit <= 0 || c.RateWindow <= 0 {
		return fmt.Errorf("%w: upstream.rate_limit and upstream.rate_window must be positive", ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: upstream.log.level: %w", ErrInvalidConfig, err)
	}
	if c.Log.Format != logging.FormatText && c.Log.Format != logging.FormatJSON {
		return fmt.Errorf("%w: upstream.log.format must be %s or %s", ErrInvalidConfig, logging.FormatText, logging.FormatJSON)
	}
	return nil
}
