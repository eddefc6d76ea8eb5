package server

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/wafertools/wafermap/pkg/errors"
)

// Config holds the server configuration, loaded from an optional TOML file
// with environment overrides for deployment secrets.
type Config struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`

	// MaxPositions caps the number of placements returned by the calculate
	// endpoint. Counts stay exact; only the positions array is truncated.
	// Zero disables the cap.
	MaxPositions int `toml:"max_positions"`

	// PresetFile points to a TOML file merged over the builtin presets.
	PresetFile string `toml:"preset_file"`

	Cache     CacheConfig     `toml:"cache"`
	Feedback  FeedbackConfig  `toml:"feedback"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	// Backend is "none", "file" or "redis".
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`

	// KeyPrefix namespaces cache keys, for deployments sharing one
	// Redis instance.
	KeyPrefix string `toml:"key_prefix"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// FeedbackConfig selects the feedback sink.
type FeedbackConfig struct {
	// Backend is "file", "webhook" or "mongo".
	Backend    string `toml:"backend"`
	Path       string `toml:"path"`
	WebhookURL string `toml:"webhook_url"`
	MongoURI   string `toml:"mongo_uri"`
	MongoDB    string `toml:"mongo_db"`
}

// RateLimitConfig bounds feedback submissions per client IP.
type RateLimitConfig struct {
	PerMinute int `toml:"per_minute"`
	Burst     int `toml:"burst"`
}

func errInvalidBackend(kind, name string) error {
	return errors.New(errors.ErrCodeInvalidConfig, "unknown %s backend %q", kind, name)
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Addr:         ":5000",
		MaxPositions: 1200,
		Cache:        CacheConfig{Backend: "none"},
		Feedback:     FeedbackConfig{Backend: "file"},
		RateLimit:    RateLimitConfig{PerMinute: 10, Burst: 10},
	}
}

// LoadConfig reads a TOML config file over the defaults. An empty path
// returns the defaults; environment variables WAFERMAP_ADDR and
// FEEDBACK_WEBHOOK_URL override either.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading config %s", path)
		}
	}

	if addr := os.Getenv("WAFERMAP_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if url := os.Getenv("FEEDBACK_WEBHOOK_URL"); url != "" {
		cfg.Feedback.Backend = "webhook"
		cfg.Feedback.WebhookURL = url
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case "", "none", "file":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}

	switch c.Feedback.Backend {
	case "", "file":
	case "webhook":
		if c.Feedback.WebhookURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "feedback.webhook_url is required for the webhook backend")
		}
	case "mongo":
		if c.Feedback.MongoURI == "" || c.Feedback.MongoDB == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "feedback.mongo_uri and feedback.mongo_db are required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown feedback backend %q", c.Feedback.Backend)
	}

	if c.RateLimit.PerMinute < 0 || c.RateLimit.Burst < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "rate limits must be non-negative")
	}
	return nil
}
