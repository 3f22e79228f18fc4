package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"trainhub/core/constants"
)

type ServerConfig struct {
	Port     int
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type GoogleAPIConfig struct {
	ClientID     string
	ClientSecret string
}

type JWTConfig struct {
	Secret string
}

// SchedulingConfig tunes the slot search and calendar aggregation.
type SchedulingConfig struct {
	Timezone           string
	HorizonWeekdays    int
	FetchTimeout       time.Duration
	BusyCacheTTL       time.Duration
	SuggestionCacheTTL time.Duration
}

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	GoogleAPI  GoogleAPIConfig
	JWT        JWTConfig
	Scheduling SchedulingConfig
}

var (
	instance *Config
	mu       sync.RWMutex
)

// Load reads .env (if present) and environment variables into the config singleton.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 7070)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "trainhub")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SCHEDULE_TIMEZONE", "UTC")
	v.SetDefault("SCHEDULE_HORIZON_WEEKDAYS", constants.DefaultHorizonWeekdays)
	v.SetDefault("SCHEDULE_FETCH_TIMEOUT_SECONDS", constants.FetchTimeoutSeconds)
	v.SetDefault("SCHEDULE_BUSY_CACHE_TTL_SECONDS", constants.BusyCacheTTLSeconds)
	v.SetDefault("SCHEDULE_SUGGESTION_CACHE_TTL_SECONDS", constants.SuggestionCacheTTLSecond)

	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetInt("PORT"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		GoogleAPI: GoogleAPIConfig{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		Scheduling: SchedulingConfig{
			Timezone:           v.GetString("SCHEDULE_TIMEZONE"),
			HorizonWeekdays:    v.GetInt("SCHEDULE_HORIZON_WEEKDAYS"),
			FetchTimeout:       time.Duration(v.GetInt("SCHEDULE_FETCH_TIMEOUT_SECONDS")) * time.Second,
			BusyCacheTTL:       time.Duration(v.GetInt("SCHEDULE_BUSY_CACHE_TTL_SECONDS")) * time.Second,
			SuggestionCacheTTL: time.Duration(v.GetInt("SCHEDULE_SUGGESTION_CACHE_TTL_SECONDS")) * time.Second,
		},
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()

	return cfg, nil
}

// Get returns the loaded config, loading defaults if Load was never called.
func Get() *Config {
	mu.RLock()
	cfg := instance
	mu.RUnlock()
	if cfg != nil {
		return cfg
	}
	cfg, _ = Load()
	return cfg
}

// GetSafe returns the loaded config or an error if it is not initialized.
func GetSafe() (*Config, error) {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		return nil, fmt.Errorf("config not loaded")
	}
	return instance, nil
}
