package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vaultpass/passgen-go/internal/generator"
	"github.com/vaultpass/passgen-go/internal/widget"
)

// DefaultTokenSecret is only acceptable outside production.
const DefaultTokenSecret = "dev-secret-change-in-production"

// Config holds application configuration.
type Config struct {
	Port        string        `mapstructure:"port"`
	Env         string        `mapstructure:"env"`
	TokenSecret string        `mapstructure:"token_secret"`
	TokenExpiry time.Duration `mapstructure:"token_expiry"`
	Session     SessionConfig
	RateLimit   RateLimitConfig `mapstructure:"ratelimit"`
	Widget      WidgetConfig
}

// SessionConfig bounds the widget session registry.
type SessionConfig struct {
	Max int           `mapstructure:"max"`
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// WidgetConfig holds the initial widget settings.
type WidgetConfig struct {
	Length         int           `mapstructure:"length"`
	Count          int           `mapstructure:"count"`
	Uppercase      bool          `mapstructure:"uppercase"`
	Lowercase      bool          `mapstructure:"lowercase"`
	Digits         bool          `mapstructure:"digits"`
	Symbols        bool          `mapstructure:"symbols"`
	ExcludeSimilar bool          `mapstructure:"exclude_similar"`
	CopyFeedback   time.Duration `mapstructure:"copy_feedback"`
}

// flagKeys maps command line flag names to config keys.
var flagKeys = map[string]string{
	"port":            "port",
	"env":             "env",
	"length":          "widget.length",
	"count":           "widget.count",
	"uppercase":       "widget.uppercase",
	"lowercase":       "widget.lowercase",
	"digits":          "widget.digits",
	"symbols":         "widget.symbols",
	"exclude-similar": "widget.exclude_similar",
	"copy-feedback":   "widget.copy_feedback",
}

// Load reads configuration from defaults, an optional TOML file, env vars
// prefixed PASSGEN_ and, when fs is non-nil, any of its flags the user set.
// The file is PASSGEN_CONFIG if set, else ~/.config/passgen/config.toml.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	defaults := generator.DefaultOptions()
	v.SetDefault("port", "8080")
	v.SetDefault("env", "development")
	v.SetDefault("token_secret", DefaultTokenSecret)
	v.SetDefault("token_expiry", 24*time.Hour)
	v.SetDefault("session.max", 1000)
	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("ratelimit.rps", 10.0)
	v.SetDefault("ratelimit.burst", 20)
	v.SetDefault("widget.length", defaults.Length)
	v.SetDefault("widget.count", defaults.Count)
	v.SetDefault("widget.uppercase", defaults.Uppercase)
	v.SetDefault("widget.lowercase", defaults.Lowercase)
	v.SetDefault("widget.digits", defaults.Digits)
	v.SetDefault("widget.symbols", defaults.Symbols)
	v.SetDefault("widget.exclude_similar", defaults.ExcludeSimilar)
	v.SetDefault("widget.copy_feedback", widget.DefaultCopyFeedback)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("PASSGEN_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "passgen"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PASSGEN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var merr *multierror.Error

	if p, err := strconv.Atoi(c.Port); err != nil || p < 1 || p > 65535 {
		merr = multierror.Append(merr, fmt.Errorf("port %q is not a valid TCP port", c.Port))
	}
	if c.Env == "production" && (c.TokenSecret == "" || c.TokenSecret == DefaultTokenSecret) {
		merr = multierror.Append(merr, errors.New("token_secret must be set in production environment"))
	}
	if c.TokenExpiry <= 0 {
		merr = multierror.Append(merr, errors.New("token_expiry must be positive"))
	}
	if c.Session.Max < 1 {
		merr = multierror.Append(merr, errors.New("session.max must be at least 1"))
	}
	if c.Session.TTL <= 0 {
		merr = multierror.Append(merr, errors.New("session.ttl must be positive"))
	}
	if c.RateLimit.RPS <= 0 {
		merr = multierror.Append(merr, errors.New("ratelimit.rps must be positive"))
	}
	if c.RateLimit.Burst < 1 {
		merr = multierror.Append(merr, errors.New("ratelimit.burst must be at least 1"))
	}
	if c.Widget.Length < generator.MinLength || c.Widget.Length > generator.MaxLength {
		merr = multierror.Append(merr, fmt.Errorf("widget.length must be between %d and %d",
			generator.MinLength, generator.MaxLength))
	}
	if c.Widget.Count < generator.MinCount || c.Widget.Count > generator.MaxCount {
		merr = multierror.Append(merr, fmt.Errorf("widget.count must be between %d and %d",
			generator.MinCount, generator.MaxCount))
	}
	if c.Widget.CopyFeedback <= 0 {
		merr = multierror.Append(merr, errors.New("widget.copy_feedback must be positive"))
	}

	return merr.ErrorOrNil()
}

// WidgetOptions returns the initial generator options.
func (c Config) WidgetOptions() generator.Options {
	return generator.Options{
		Length:         c.Widget.Length,
		Count:          c.Widget.Count,
		Uppercase:      c.Widget.Uppercase,
		Lowercase:      c.Widget.Lowercase,
		Digits:         c.Widget.Digits,
		Symbols:        c.Widget.Symbols,
		ExcludeSimilar: c.Widget.ExcludeSimilar,
	}
}
