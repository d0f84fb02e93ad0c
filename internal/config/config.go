package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	MailboxFile    string        // path to the emails file (JSON or YAML)
	ReloadInterval time.Duration // interval to reload the mailbox file (default: 24h)
	SweepInterval  time.Duration // interval to run the session janitor (default: 1h)
	SessionIdleTTL time.Duration // idle sessions are evicted from memory after this (default: 2h)
	SessionTTL     time.Duration // Redis TTL of persisted session state (default: 30 days)
	PageSize       int           // records per page (default: 10)
	Timezone       string        // zone for date range day boundaries (default: Local)
	SortLocale     string        // BCP 47 tag for title collation (default: en)

	RateBurst  int // token bucket size per client IP
	RatePerMin int // token refill per minute

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict ops endpoints to specific IP ranges
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

// Local is the terminal UI configuration. It needs no Redis.
type Local struct {
	LogLevel    string
	LogFile     string // the alt-screen owns stdout, logs go here
	MailboxFile string
	DBPath      string // SQLite file holding favorites and selection
	PageSize    int
	Timezone    string
	SortLocale  string
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SHOWCASE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustInterval("SHOWCASE_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("SHOWCASE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SHOWCASE_PRETTY_LOG", true),

		// Mailbox and sessions
		MailboxFile:    getenv("SHOWCASE_MAILBOX_FILE", "/app/emails.json"),
		ReloadInterval: mustInterval("SHOWCASE_RELOAD_INTERVAL", 24*time.Hour),
		SweepInterval:  mustInterval("SHOWCASE_SWEEP_INTERVAL", time.Hour),
		SessionIdleTTL: mustInterval("SHOWCASE_SESSION_IDLE_TTL", 2*time.Hour),
		SessionTTL:     mustInterval("SHOWCASE_SESSION_TTL", 720*time.Hour),
		PageSize:       getenvInt("SHOWCASE_PAGE_SIZE", 10),
		Timezone:       getenv("SHOWCASE_TIMEZONE", "Local"),
		SortLocale:     getenv("SHOWCASE_SORT_LOCALE", "en"),

		RateBurst:  getenvInt("SHOWCASE_RATE_BURST", 60),
		RatePerMin: getenvInt("SHOWCASE_RATE_PER_MIN", 600),

		// Redis settings
		RedisAddr:             requireEnv("SHOWCASE_REDIS_ADDR"),
		RedisUser:             getenv("SHOWCASE_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("SHOWCASE_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("SHOWCASE_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("SHOWCASE_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("SHOWCASE_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("SHOWCASE_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("SHOWCASE_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: SHOWCASE_REDIS_PASSWORD is required when SHOWCASE_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// LoadLocal reads the terminal UI settings
func LoadLocal() *Local {
	dir := configDir()
	return &Local{
		LogLevel:    getenv("SHOWCASE_LOG_LEVEL", "info"),
		LogFile:     getenv("SHOWCASE_LOG_FILE", filepath.Join(dir, "showcase.log")),
		MailboxFile: getenv("SHOWCASE_MAILBOX_FILE", "emails.json"),
		DBPath:      getenv("SHOWCASE_DB_PATH", filepath.Join(dir, "showcase.db")),
		PageSize:    getenvInt("SHOWCASE_PAGE_SIZE", 10),
		Timezone:    getenv("SHOWCASE_TIMEZONE", "Local"),
		SortLocale:  getenv("SHOWCASE_SORT_LOCALE", "en"),
	}
}

// Location resolves the configured time zone
func (c *Config) Location() (*time.Location, error) { return location(c.Timezone) }

// Language resolves the configured collation language
func (c *Config) Language() (language.Tag, error) { return sortLanguage(c.SortLocale) }

// Location resolves the configured time zone
func (l *Local) Location() (*time.Location, error) { return location(l.Timezone) }

// Language resolves the configured collation language
func (l *Local) Language() (language.Tag, error) { return sortLanguage(l.SortLocale) }

func location(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

func sortLanguage(tag string) (language.Tag, error) {
	if tag == "" {
		return language.English, nil
	}
	t, err := language.Parse(tag)
	if err != nil {
		return language.Und, fmt.Errorf("invalid sort locale %q: %w", tag, err)
	}
	return t, nil
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "showcase")
	}
	return ".showcase"
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

// mustInterval is mustDuration restricted to positive values. Tickers and
// TTLs built from these settings cannot take zero or a negative span.
func mustInterval(key string, def time.Duration) time.Duration {
	if d := mustDuration(key, def); d > 0 {
		return d
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
