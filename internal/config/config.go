package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "UTC"
	defaultPort       = "8080"
	defaultDateLayout = "2/1/2006"

	configPathEnv     = "FRIGORA_CONFIG"
	databaseURLEnv    = "DATABASE_URL"
	sqlitePathEnv     = "SQLITE_PATH"
	serverPortEnv     = "SERVER_PORT"
	allowedOriginsEnv = "ALLOWED_ORIGINS"
	jwtSecretEnv      = "JWT_SECRET"
	sessionTTLEnv     = "SESSION_TTL_MINUTES"
	timezoneEnv       = "FRIGORA_TIMEZONE"
	logLevelEnv       = "LOG_LEVEL"
	reportLayoutEnv   = "REPORT_DATE_LAYOUT"
	dbMaxConnsEnv     = "DB_MAX_CONNS"
	dbConnTimeoutEnv  = "DB_CONNECT_TIMEOUT_SECONDS"

	defaultDBMaxConns       = 10
	defaultDBConnectTimeout = 5
	defaultDBMaxIdleMinutes = 30
)

// Config holds every setting the server, CLI and tools read at startup.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Freshness FreshnessConfig `yaml:"freshness"`
	Report    ReportConfig    `yaml:"report"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	// AllowedOrigins is a comma-separated CORS allow list; empty means same-origin only.
	AllowedOrigins string `yaml:"allowedOrigins"`
}

// DatabaseConfig selects the store. SQLitePath, when set, is preferred by the CLI.
type DatabaseConfig struct {
	URL        string `yaml:"url"`
	SQLitePath string `yaml:"sqlitePath"`

	// Postgres pool sizing. Zero MinConns keeps no idle connections warm.
	MaxConns              int32 `yaml:"maxConns"`
	MinConns              int32 `yaml:"minConns"`
	ConnectTimeoutSeconds int   `yaml:"connectTimeoutSeconds"`
	MaxConnIdleMinutes    int   `yaml:"maxConnIdleMinutes"`
}

func (d DatabaseConfig) ConnectTimeout() time.Duration {
	return time.Duration(d.ConnectTimeoutSeconds) * time.Second
}

func (d DatabaseConfig) MaxConnIdleTime() time.Duration {
	return time.Duration(d.MaxConnIdleMinutes) * time.Minute
}

type AuthConfig struct {
	JWTSecret         string `yaml:"jwtSecret"`
	SessionTTLMinutes int    `yaml:"sessionTtlMinutes"`
}

// SessionTTL is the idle lifetime of a server-side session.
func (a AuthConfig) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLMinutes) * time.Minute
}

// FreshnessConfig fixes the timezone in which calendar days are counted.
type FreshnessConfig struct {
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the configured timezone, defaulting to UTC.
func (f FreshnessConfig) Location() *time.Location {
	if f.location != nil {
		return f.location
	}
	return time.UTC
}

type ReportConfig struct {
	DateLayout string `yaml:"dateLayout"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads the optional YAML file named by FRIGORA_CONFIG over the defaults,
// then applies environment overrides. Callers load .env beforehand.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			slog.Warn("config: cannot read file, using defaults", "path", path, "error", err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				slog.Warn("config: cannot parse file, using defaults", "path", path, "error", err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseURLEnv); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv(sqlitePathEnv); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv(dbMaxConnsEnv); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n > 0 {
			c.Database.MaxConns = int32(n)
		} else {
			slog.Warn("config: ignoring invalid pool size", "value", v)
		}
	}
	if v := os.Getenv(dbConnTimeoutEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Database.ConnectTimeoutSeconds = n
		} else {
			slog.Warn("config: ignoring invalid connect timeout", "value", v)
		}
	}
	if v := os.Getenv(serverPortEnv); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv(allowedOriginsEnv); v != "" {
		c.Server.AllowedOrigins = v
	}
	if v := os.Getenv(jwtSecretEnv); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv(sessionTTLEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Auth.SessionTTLMinutes = n
		} else {
			slog.Warn("config: ignoring invalid session TTL", "value", v)
		}
	}
	if v := os.Getenv(timezoneEnv); v != "" {
		c.Freshness.Timezone = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(reportLayoutEnv); v != "" {
		c.Report.DateLayout = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Freshness.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		slog.Warn("config: unknown timezone, reverting to default", "timezone", tz, "default", defaultTimezone)
		loc = time.UTC
		tz = defaultTimezone
	}
	c.Freshness.Timezone = tz
	c.Freshness.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Server.Port != "" {
		base.Server.Port = override.Server.Port
	}
	if override.Server.AllowedOrigins != "" {
		base.Server.AllowedOrigins = override.Server.AllowedOrigins
	}

	if override.Database.URL != "" {
		base.Database.URL = override.Database.URL
	}
	if override.Database.SQLitePath != "" {
		base.Database.SQLitePath = override.Database.SQLitePath
	}
	if override.Database.MaxConns > 0 {
		base.Database.MaxConns = override.Database.MaxConns
	}
	if override.Database.MinConns > 0 {
		base.Database.MinConns = override.Database.MinConns
	}
	if override.Database.ConnectTimeoutSeconds > 0 {
		base.Database.ConnectTimeoutSeconds = override.Database.ConnectTimeoutSeconds
	}
	if override.Database.MaxConnIdleMinutes > 0 {
		base.Database.MaxConnIdleMinutes = override.Database.MaxConnIdleMinutes
	}

	if override.Auth.JWTSecret != "" {
		base.Auth.JWTSecret = override.Auth.JWTSecret
	}
	if override.Auth.SessionTTLMinutes > 0 {
		base.Auth.SessionTTLMinutes = override.Auth.SessionTTLMinutes
	}

	if override.Freshness.Timezone != "" {
		base.Freshness.Timezone = override.Freshness.Timezone
	}
	if override.Report.DateLayout != "" {
		base.Report.DateLayout = override.Report.DateLayout
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{Port: defaultPort},
		Database: DatabaseConfig{
			MaxConns:              defaultDBMaxConns,
			ConnectTimeoutSeconds: defaultDBConnectTimeout,
			MaxConnIdleMinutes:    defaultDBMaxIdleMinutes,
		},
		Auth:      AuthConfig{SessionTTLMinutes: 12 * 60},
		Freshness: FreshnessConfig{Timezone: defaultTimezone, location: time.UTC},
		Report:    ReportConfig{DateLayout: defaultDateLayout},
		Logging:   LoggingConfig{Level: "info"},
	}
}
