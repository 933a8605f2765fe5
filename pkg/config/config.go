package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds process configuration for the timetabling engine and its
// CLI facade.
type Config struct {
	Env string

	Database  DatabaseConfig
	Log       LogConfig
	Timetable TimetableConfig
}

// DatabaseConfig describes the Postgres connection backing the
// SchedulingInput and SchedulingOutput ports.
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

// LogConfig controls zap's encoding and verbosity.
type LogConfig struct {
	Level  string
	Format string
}

// TimetableConfig carries the engine tuning knobs the Snapshot may also
// override per run: window bounds, diversification seed, and
// the safety knobs from §4.5/§4.6/§5.
type TimetableConfig struct {
	WindowStart      int // minutes-since-midnight, default 420 (07:00)
	WindowEnd        int // minutes-since-midnight, default 1170 (19:30)
	DomainCap        int // 0 = unbounded
	AC3TrimThreshold int // 0 = disabled
	NodeBudget       int // 0 = unbounded
	Seed             int64
	GeneratorWorkers int
	ProposalTTL      time.Duration
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
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

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

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Timetable = TimetableConfig{
		WindowStart:      v.GetInt("TIMETABLE_WINDOW_START"),
		WindowEnd:        v.GetInt("TIMETABLE_WINDOW_END"),
		DomainCap:        v.GetInt("TIMETABLE_DOMAIN_CAP"),
		AC3TrimThreshold: v.GetInt("TIMETABLE_AC3_TRIM_THRESHOLD"),
		NodeBudget:       v.GetInt("TIMETABLE_NODE_BUDGET"),
		Seed:             v.GetInt64("TIMETABLE_SEED"),
		GeneratorWorkers: v.GetInt("TIMETABLE_GENERATOR_WORKERS"),
		ProposalTTL:      parseDuration(v.GetString("TIMETABLE_PROPOSAL_TTL"), 30*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "iload")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("TIMETABLE_WINDOW_START", 420)
	v.SetDefault("TIMETABLE_WINDOW_END", 1170)
	v.SetDefault("TIMETABLE_DOMAIN_CAP", 0)
	v.SetDefault("TIMETABLE_AC3_TRIM_THRESHOLD", 40)
	v.SetDefault("TIMETABLE_NODE_BUDGET", 0)
	v.SetDefault("TIMETABLE_SEED", 0)
	v.SetDefault("TIMETABLE_GENERATOR_WORKERS", 4)
	v.SetDefault("TIMETABLE_PROPOSAL_TTL", "30m")
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
