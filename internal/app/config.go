package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nekobyte/englishtek-backend/internal/data/db"
	"github.com/nekobyte/englishtek-backend/internal/platform/envutil"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

type Config struct {
	ServiceName string
	Environment string
	Port        string

	DB db.Config

	JWTSecretKey string
	CORSOrigins  []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CachePrefix   string

	DashboardCacheTTL  time.Duration
	ActivityWindowDays int
	TopScorerLimit     int
	ActivityShortLimit int
	ReportTimezone     string

	BackfillOrderOnStart bool
}

// fileConfig mirrors the env keys for CONFIG_FILE. Zero values are ignored.
type fileConfig struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`

	Database struct {
		Driver           string `yaml:"driver"`
		PostgresHost     string `yaml:"postgres_host"`
		PostgresPort     string `yaml:"postgres_port"`
		PostgresUser     string `yaml:"postgres_user"`
		PostgresPassword string `yaml:"postgres_password"`
		PostgresName     string `yaml:"postgres_name"`
		PostgresSSLMode  string `yaml:"postgres_sslmode"`
		SQLitePath       string `yaml:"sqlite_path"`
	} `yaml:"database"`

	CORSOrigins []string `yaml:"cors_allowed_origins"`

	Redis struct {
		Addr   string `yaml:"addr"`
		DB     int    `yaml:"db"`
		Prefix string `yaml:"prefix"`
	} `yaml:"redis"`

	Dashboard struct {
		CacheTTL       string `yaml:"cache_ttl"`
		WindowDays     int    `yaml:"activity_window_days"`
		TopScorerLimit int    `yaml:"top_scorer_limit"`
	} `yaml:"dashboard"`

	ActivityShortLimit int    `yaml:"activity_short_limit"`
	ReportTimezone     string `yaml:"report_timezone"`

	BackfillOrderOnStart *bool `yaml:"backfill_order_on_start"`
}

func defaultConfig() Config {
	return Config{
		ServiceName: "englishtek-backend",
		Environment: "development",
		Port:        "8080",
		DB: db.Config{
			Driver:          db.DriverPostgres,
			PostgresHost:    "localhost",
			PostgresPort:    "5432",
			PostgresUser:    "postgres",
			PostgresName:    "englishtek",
			PostgresSSLMode: "disable",
			SQLitePath:      "englishtek.db",
		},
		CachePrefix:        "englishtek",
		DashboardCacheTTL:  time.Minute,
		ActivityWindowDays: 30,
		TopScorerLimit:     10,
		ActivityShortLimit: 3,
		ReportTimezone:     "UTC",
	}
}

// LoadConfig layers defaults, then CONFIG_FILE (yaml), then environment.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()

	if path := envutil.String("CONFIG_FILE", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		applyFile(&cfg, fc)
		log.Info("Loaded config file", "path", path)
	}

	cfg.Environment = envutil.String("ENVIRONMENT", cfg.Environment)
	cfg.Port = envutil.String("PORT", cfg.Port)

	cfg.DB.Driver = envutil.String("DB_DRIVER", cfg.DB.Driver)
	cfg.DB.PostgresHost = envutil.String("POSTGRES_HOST", cfg.DB.PostgresHost)
	cfg.DB.PostgresPort = envutil.String("POSTGRES_PORT", cfg.DB.PostgresPort)
	cfg.DB.PostgresUser = envutil.String("POSTGRES_USER", cfg.DB.PostgresUser)
	cfg.DB.PostgresPassword = envutil.String("POSTGRES_PASSWORD", cfg.DB.PostgresPassword)
	cfg.DB.PostgresName = envutil.String("POSTGRES_NAME", cfg.DB.PostgresName)
	cfg.DB.PostgresSSLMode = envutil.String("POSTGRES_SSLMODE", cfg.DB.PostgresSSLMode)
	cfg.DB.SQLitePath = envutil.String("SQLITE_PATH", cfg.DB.SQLitePath)

	cfg.JWTSecretKey = envutil.String("JWT_SECRET_KEY", cfg.JWTSecretKey)
	cfg.CORSOrigins = envutil.List("CORS_ALLOWED_ORIGINS", cfg.CORSOrigins)

	cfg.RedisAddr = envutil.String("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = envutil.String("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = envutil.Int("REDIS_DB", cfg.RedisDB)
	cfg.CachePrefix = envutil.String("REDIS_PREFIX", cfg.CachePrefix)

	cfg.DashboardCacheTTL = envutil.Duration("DASHBOARD_CACHE_TTL", cfg.DashboardCacheTTL)
	cfg.ActivityWindowDays = envutil.Int("ACTIVITY_WINDOW_DAYS", cfg.ActivityWindowDays)
	cfg.TopScorerLimit = envutil.Int("TOP_SCORER_LIMIT", cfg.TopScorerLimit)
	cfg.ActivityShortLimit = envutil.Int("ACTIVITY_SHORT_LIMIT", cfg.ActivityShortLimit)
	cfg.ReportTimezone = envutil.String("REPORT_TIMEZONE", cfg.ReportTimezone)

	cfg.BackfillOrderOnStart = envutil.Bool("BACKFILL_ORDER_ON_START", cfg.BackfillOrderOnStart)

	if strings.TrimSpace(cfg.JWTSecretKey) == "" {
		return Config{}, fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", cfg.ReportTimezone, err)
	}
	return cfg, nil
}

func (c Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.ReportTimezone)
	if tz == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(tz)
}

func applyFile(cfg *Config, fc fileConfig) {
	set := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	setInt := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}

	set(&cfg.Port, fc.Port)
	set(&cfg.Environment, fc.Environment)

	set(&cfg.DB.Driver, fc.Database.Driver)
	set(&cfg.DB.PostgresHost, fc.Database.PostgresHost)
	set(&cfg.DB.PostgresPort, fc.Database.PostgresPort)
	set(&cfg.DB.PostgresUser, fc.Database.PostgresUser)
	set(&cfg.DB.PostgresPassword, fc.Database.PostgresPassword)
	set(&cfg.DB.PostgresName, fc.Database.PostgresName)
	set(&cfg.DB.PostgresSSLMode, fc.Database.PostgresSSLMode)
	set(&cfg.DB.SQLitePath, fc.Database.SQLitePath)

	if len(fc.CORSOrigins) > 0 {
		cfg.CORSOrigins = fc.CORSOrigins
	}

	set(&cfg.RedisAddr, fc.Redis.Addr)
	setInt(&cfg.RedisDB, fc.Redis.DB)
	set(&cfg.CachePrefix, fc.Redis.Prefix)

	if d, err := time.ParseDuration(strings.TrimSpace(fc.Dashboard.CacheTTL)); err == nil && d > 0 {
		cfg.DashboardCacheTTL = d
	}
	setInt(&cfg.ActivityWindowDays, fc.Dashboard.WindowDays)
	setInt(&cfg.TopScorerLimit, fc.Dashboard.TopScorerLimit)
	setInt(&cfg.ActivityShortLimit, fc.ActivityShortLimit)
	set(&cfg.ReportTimezone, fc.ReportTimezone)

	if fc.BackfillOrderOnStart != nil {
		cfg.BackfillOrderOnStart = *fc.BackfillOrderOnStart
	}
}
