package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Rate limit store backends.
const (
	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"
)

type Config struct {
	Env            string
	Port           int
	APIPrefix      string
	MigrateOnStart bool
	// TrustedProxies lists the peers whose X-Forwarded-For is honoured when
	// resolving the client IP. Empty trusts none.
	TrustedProxies []string

	Database  DatabaseConfig
	Redis     RedisConfig
	Supabase  SupabaseConfig
	Site      SiteConfig
	Admin     AdminConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Session   SessionConfig
	CORS      CORSConfig
	Log       LogConfig
}

type DatabaseConfig struct {
	URL          string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SupabaseConfig holds the hosted auth/database platform credentials.
type SupabaseConfig struct {
	URL         string
	AnonKey     string
	ServiceRole string
	JWTSecret   string
}

// SiteConfig lists the public URLs the dashboard is served from.
type SiteConfig struct {
	URL  string
	URLs []string
}

// AdminConfig tunes admin resolution.
type AdminConfig struct {
	Emails      []string
	DevAllowAll bool
}

// RateLimitConfig configures the fixed-window limiter for mutations.
type RateLimitConfig struct {
	Backend string
	Window  time.Duration
	Max     int
}

// CacheConfig toggles Redis caching of read listings.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// SessionConfig configures the HTTP-only session cookies.
type SessionConfig struct {
	HashKey  string
	BlockKey string
	Secure   bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.MigrateOnStart = v.GetBool("MIGRATE_ON_START")
	cfg.TrustedProxies = splitAndTrim(v.GetString("TRUSTED_PROXIES"))

	cfg.Database = DatabaseConfig{
		URL:          v.GetString("DATABASE_URL"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Supabase = SupabaseConfig{
		URL:         v.GetString("SUPABASE_URL"),
		AnonKey:     v.GetString("SUPABASE_ANON_KEY"),
		ServiceRole: v.GetString("SUPABASE_SERVICE_ROLE"),
		JWTSecret:   v.GetString("SUPABASE_JWT_SECRET"),
	}

	cfg.Site = SiteConfig{
		URL:  strings.TrimRight(v.GetString("SITE_URL"), "/"),
		URLs: splitAndTrim(v.GetString("SITE_URLS")),
	}

	cfg.Admin = AdminConfig{
		Emails:      lowerAll(splitAndTrim(v.GetString("ADMIN_EMAILS"))),
		DevAllowAll: v.GetBool("ADMIN_DEV_ALLOW_ALL"),
	}

	backend := strings.ToLower(v.GetString("RATE_LIMIT_BACKEND"))
	if backend != RateLimitRedis {
		backend = RateLimitMemory
	}
	maxHits := v.GetInt("RATE_LIMIT_MAX")
	if maxHits <= 0 {
		maxHits = 60
	}
	cfg.RateLimit = RateLimitConfig{
		Backend: backend,
		Window:  parseDuration(v.GetString("RATE_LIMIT_WINDOW"), time.Minute),
		Max:     maxHits,
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("CACHE_ENABLED"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 30*time.Second),
	}

	cfg.Session = SessionConfig{
		HashKey:  v.GetString("SESSION_HASH_KEY"),
		BlockKey: v.GetString("SESSION_BLOCK_KEY"),
		Secure:   v.GetBool("SESSION_COOKIE_SECURE") || cfg.Env == EnvProduction,
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("MIGRATE_ON_START", false)
	v.SetDefault("TRUSTED_PROXIES", "")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "postgres")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SUPABASE_URL", "")
	v.SetDefault("SUPABASE_ANON_KEY", "")
	v.SetDefault("SUPABASE_SERVICE_ROLE", "")
	v.SetDefault("SUPABASE_JWT_SECRET", "")

	v.SetDefault("SITE_URL", "http://localhost:3000")
	v.SetDefault("SITE_URLS", "")
	v.SetDefault("ADMIN_EMAILS", "")
	v.SetDefault("ADMIN_DEV_ALLOW_ALL", false)

	v.SetDefault("RATE_LIMIT_BACKEND", RateLimitMemory)
	v.SetDefault("RATE_LIMIT_WINDOW", "60s")
	v.SetDefault("RATE_LIMIT_MAX", 60)

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_TTL", "30s")

	v.SetDefault("SESSION_HASH_KEY", "dev_session_hash_key_change_me_0123456789")
	v.SetDefault("SESSION_BLOCK_KEY", "")
	v.SetDefault("SESSION_COOKIE_SECURE", false)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// AllowedSiteURLs returns every configured public site URL, SITE_URLS first.
func (c *Config) AllowedSiteURLs() []string {
	if len(c.Site.URLs) > 0 {
		return c.Site.URLs
	}
	if c.Site.URL != "" {
		return []string{c.Site.URL}
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func lowerAll(values []string) []string {
	for i, v := range values {
		values[i] = strings.ToLower(v)
	}
	return values
}
