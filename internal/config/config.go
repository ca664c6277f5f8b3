package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Version VersionConfig `yaml:"version"`
	Auth    AuthConfig    `yaml:"auth"`
	Redis   RedisConfig   `yaml:"redis"`
	Log     LogConfig     `yaml:"log"`
	CORS    CORSConfig    `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RateLimit       int           `yaml:"rate_limit"       env:"SERVER_RATE_LIMIT"       env-default:"120"` // writes per minute per caller, 0 disables
}

// StoreConfig holds the term store and collaboration settings.
type StoreConfig struct {
	DataFile           string        `yaml:"data_file"            env:"STORE_DATA_FILE"            env-default:"./data/technical_dictionary.json"`
	LockTTL            time.Duration `yaml:"lock_ttl"             env:"STORE_LOCK_TTL"             env-default:"30m"`
	ActiveWindow       time.Duration `yaml:"active_window"        env:"STORE_ACTIVE_WINDOW"        env-default:"15m"`
	ConflictWindow     time.Duration `yaml:"conflict_window"      env:"STORE_CONFLICT_WINDOW"      env-default:"30m"`
	LogCapacity        int           `yaml:"log_capacity"         env:"STORE_LOG_CAPACITY"         env-default:"1000"`
	ChangeCapacity     int           `yaml:"change_capacity"      env:"STORE_CHANGE_CAPACITY"      env-default:"100"`
	TranslateCacheSize int           `yaml:"translate_cache_size" env:"STORE_TRANSLATE_CACHE_SIZE" env-default:"1024"`
}

// VersionConfig holds version archive settings. An empty ArchiveDir keeps versions in memory only.
type VersionConfig struct {
	ArchiveDir    string `yaml:"archive_dir"    env:"VERSION_ARCHIVE_DIR"`
	ArchiveAuthor string `yaml:"archive_author" env:"VERSION_ARCHIVE_AUTHOR" env-default:"glossary"`
}

// AuthConfig holds token settings.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"glossary"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"12h"`
}

// RedisConfig holds the change feed settings. An empty URL disables the feed.
type RedisConfig struct {
	URL     string `yaml:"url"     env:"REDIS_URL"`
	Channel string `yaml:"channel" env:"REDIS_CHANNEL" env-default:"glossary:changes"`
	Backlog int    `yaml:"backlog" env:"REDIS_BACKLOG" env-default:"200"`
}

// Enabled reports whether a Redis URL is configured.
func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != ""
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
