package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env  string
	Port int

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Planner  PlannerConfig
	Calendar CalendarConfig
	Feed     FeedConfig
}

type DatabaseConfig struct {
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
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PlannerConfig carries the allocation policy. It is mapped onto an immutable
// scheduler.Policy so concurrent runs with different policies stay safe.
type PlannerConfig struct {
	Timezone             string
	SlotMinutes          int
	WorkdayStartHour     int
	WorkdayEndHour       int
	LunchStartHour       int
	LunchEndHour         int
	ExcludedWeekday      string
	MinGapMinutes        int
	MaxContinuousMinutes int
	BusyBufferMinutes    int
}

// CalendarConfig lists the external busy-calendar sources.
type CalendarConfig struct {
	SourceURLs   []string
	FetchTimeout time.Duration
}

// FeedConfig governs the published iCalendar feed.
type FeedConfig struct {
	RequireToken bool
	TokenSecret  string
	TokenTTL     time.Duration
	CacheTTL     time.Duration
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Database = DatabaseConfig{
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
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Planner = PlannerConfig{
		Timezone:             v.GetString("PLANNER_TIMEZONE"),
		SlotMinutes:          v.GetInt("PLANNER_SLOT_MINUTES"),
		WorkdayStartHour:     v.GetInt("PLANNER_WORKDAY_START_HOUR"),
		WorkdayEndHour:       v.GetInt("PLANNER_WORKDAY_END_HOUR"),
		LunchStartHour:       v.GetInt("PLANNER_LUNCH_START_HOUR"),
		LunchEndHour:         v.GetInt("PLANNER_LUNCH_END_HOUR"),
		ExcludedWeekday:      v.GetString("PLANNER_EXCLUDED_WEEKDAY"),
		MinGapMinutes:        v.GetInt("PLANNER_MIN_GAP_MINUTES"),
		MaxContinuousMinutes: v.GetInt("PLANNER_MAX_CONTINUOUS_MINUTES"),
		BusyBufferMinutes:    v.GetInt("PLANNER_BUSY_BUFFER_MINUTES"),
	}

	cfg.Calendar = CalendarConfig{
		SourceURLs:   splitAndTrim(v.GetString("CALENDAR_SOURCE_URLS")),
		FetchTimeout: parseDuration(v.GetString("CALENDAR_FETCH_TIMEOUT"), 10*time.Second),
	}

	cfg.Feed = FeedConfig{
		RequireToken: v.GetBool("FEED_REQUIRE_TOKEN"),
		TokenSecret:  v.GetString("FEED_TOKEN_SECRET"),
		TokenTTL:     parseDuration(v.GetString("FEED_TOKEN_TTL"), 30*24*time.Hour),
		CacheTTL:     parseDuration(v.GetString("FEED_CACHE_TTL"), 10*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "hebdo")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PLANNER_TIMEZONE", "Europe/Paris")
	v.SetDefault("PLANNER_SLOT_MINUTES", 30)
	v.SetDefault("PLANNER_WORKDAY_START_HOUR", 9)
	v.SetDefault("PLANNER_WORKDAY_END_HOUR", 22)
	v.SetDefault("PLANNER_LUNCH_START_HOUR", 12)
	v.SetDefault("PLANNER_LUNCH_END_HOUR", 15)
	v.SetDefault("PLANNER_EXCLUDED_WEEKDAY", "sunday")
	v.SetDefault("PLANNER_MIN_GAP_MINUTES", 30)
	v.SetDefault("PLANNER_MAX_CONTINUOUS_MINUTES", 120)
	v.SetDefault("PLANNER_BUSY_BUFFER_MINUTES", 60)

	v.SetDefault("CALENDAR_SOURCE_URLS", "")
	v.SetDefault("CALENDAR_FETCH_TIMEOUT", "10s")

	v.SetDefault("FEED_REQUIRE_TOKEN", false)
	v.SetDefault("FEED_TOKEN_SECRET", "dev_feed_secret")
	v.SetDefault("FEED_TOKEN_TTL", "720h")
	v.SetDefault("FEED_CACHE_TTL", "10m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
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
