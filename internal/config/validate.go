package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0 (got %v)", c.Auth.AccessTokenTTL)
	}

	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must be >= 0 (got %d)", c.Server.RateLimit)
	}

	if err := c.Store.validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	if c.Redis.Enabled() {
		if strings.TrimSpace(c.Redis.Channel) == "" {
			return fmt.Errorf("redis.channel is required when redis.url is set")
		}
		if c.Redis.Backlog < 0 {
			return fmt.Errorf("redis.backlog must be >= 0 (got %d)", c.Redis.Backlog)
		}
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	return nil
}

func (s *StoreConfig) validate() error {
	if strings.TrimSpace(s.DataFile) == "" {
		return fmt.Errorf("data_file is required")
	}
	for name, d := range map[string]time.Duration{
		"lock_ttl":        s.LockTTL,
		"active_window":   s.ActiveWindow,
		"conflict_window": s.ConflictWindow,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be > 0 (got %v)", name, d)
		}
	}
	if s.LogCapacity <= 0 {
		return fmt.Errorf("log_capacity must be > 0 (got %d)", s.LogCapacity)
	}
	if s.ChangeCapacity <= 0 {
		return fmt.Errorf("change_capacity must be > 0 (got %d)", s.ChangeCapacity)
	}
	if s.TranslateCacheSize < 0 {
		return fmt.Errorf("translate_cache_size must be >= 0 (got %d)", s.TranslateCacheSize)
	}
	return nil
}
