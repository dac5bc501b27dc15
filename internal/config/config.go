package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request budget, must cover an enrichment call

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Storage
	StoreBackend string         // "sqlite" | "redis" | "memory"
	SQLitePath   string         // database file for the sqlite backend
	SnapshotKey  string         // slot key holding the JSON array of links
	SeedFile     string         // optional YAML seed, empty = built-in demo links
	Location     *time.Location // calendar days are counted in this zone

	// Analytics
	WindowDays   int           // default analytics window
	RollInterval time.Duration // how often histories are re-aligned on today

	// Display
	ShortDomain string // prefix of the displayed short URL (ex: "lp.ai")

	// Enrichment
	EnrichEnabled bool
	EnrichTimeout time.Duration
	GeminiAPIKey  string
	GeminiModel   string
	EnrichCache   time.Duration // TTL of cached enrichments (redis backend only)

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

	AllowedHosts   []string // optional, restrict access to specific Host headers
	AllowedCIDRS   []string // optional, restrict ops endpoints to specific IPs
	TrustProxy     bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	MetricsEnabled bool     // expose /metrics
}

// Load reads the configuration from the environment. Variables from an
// optional .env file (LINKPULSE_ENV_FILE, default ".env") fill in anything
// not already set.
func Load() *Config {
	loadDotEnv(getenv("LINKPULSE_ENV_FILE", ".env"))

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LINKPULSE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LINKPULSE_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("LINKPULSE_REQUEST_TIMEOUT", 30*time.Second),

		// Logging
		LogLevel:  getenv("LINKPULSE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LINKPULSE_PRETTY_LOG", true),

		// Storage
		StoreBackend: strings.ToLower(getenv("LINKPULSE_STORE_BACKEND", BackendSQLite)),
		SQLitePath:   getenv("LINKPULSE_SQLITE_PATH", "linkpulse.db"),
		SnapshotKey:  getenv("LINKPULSE_SNAPSHOT_KEY", "linkpulse_links"),
		SeedFile:     getenv("LINKPULSE_SEED_FILE", ""),
		Location:     mustLocation("LINKPULSE_TIMEZONE"),

		// Analytics
		WindowDays:   getenvInt("LINKPULSE_WINDOW_DAYS", 7),
		RollInterval: mustDuration("LINKPULSE_ROLL_INTERVAL", time.Hour),

		ShortDomain: getenv("LINKPULSE_SHORT_DOMAIN", "lp.ai"),

		// Enrichment
		EnrichEnabled: mustBool("LINKPULSE_ENRICH_ENABLED", true),
		EnrichTimeout: mustDuration("LINKPULSE_ENRICH_TIMEOUT", 20*time.Second),
		GeminiAPIKey:  getenv("GEMINI_API_KEY", os.Getenv("API_KEY")),
		GeminiModel:   getenv("LINKPULSE_GEMINI_MODEL", "gemini-3-flash-preview"),
		EnrichCache:   mustDuration("LINKPULSE_ENRICH_CACHE_TTL", 24*time.Hour),

		// Redis settings
		RedisUser:             getenv("LINKPULSE_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("LINKPULSE_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("LINKPULSE_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("LINKPULSE_REDIS_DB", 0),
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
		AllowedHosts:   splitAndTrim(getenv("LINKPULSE_ALLOWED_HOSTS", "")),
		AllowedCIDRS:   parseAllowedIPs(getenv("LINKPULSE_ALLOWED_CIDRS", "")),
		TrustProxy:     mustBool("LINKPULSE_TRUST_PROXY", false),
		MetricsEnabled: mustBool("LINKPULSE_METRICS_ENABLED", true),
	}

	switch cfg.StoreBackend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		cfg.RedisAddr = requireEnv("LINKPULSE_REDIS_ADDR")
		if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
			panic("❌ FATAL: LINKPULSE_REDIS_PASSWORD is required when LINKPULSE_REDIS_PASSWORD_REQUIRED=true")
		}
	default:
		panic(fmt.Sprintf("❌ FATAL: LINKPULSE_STORE_BACKEND must be sqlite, redis or memory, got %q", cfg.StoreBackend))
	}

	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 7
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = redact(cfg.RedisPassword)
		cfgCopy.GeminiAPIKey = redact(cfg.GeminiAPIKey)
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// EnrichmentActive reports whether the Gemini model should be wired in.
func (c *Config) EnrichmentActive() bool {
	return c.EnrichEnabled && c.GeminiAPIKey != ""
}

// helpers
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] failed to load %s: %v\n", path, err)
	}
}

func redact(v string) string {
	if v == "" {
		return ""
	}
	return "***REDACTED***"
}

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

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// mustLocation resolves an IANA zone name. Unset means the host's local zone.
func mustLocation(key string) *time.Location {
	name := getenv(key, "Local")
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid time zone for %s: %s", key, name))
	}
	return loc
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
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
