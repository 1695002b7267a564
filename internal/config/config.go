package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port           string   `yaml:"port" env:"PORT" env-default:"8080"`
	Environment    string   `yaml:"environment" env:"ENVIRONMENT" env-default:"development"`
	AllowedOrigins []string `yaml:"allowed-origins" env:"ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
	AdminToken     string   `yaml:"admin-token" env:"ADMIN_TOKEN"`

	Database Database `yaml:"database"`
	Redis    Redis    `yaml:"redis"`
	Auth     Auth     `yaml:"auth"`
	Game     Game     `yaml:"game"`
	Notify   Notify   `yaml:"notify"`
	Log      Log      `yaml:"log"`
}

type Database struct {
	URL                string `yaml:"url" env:"DATABASE_URL"`
	MaxOpenConns       int    `yaml:"max-open-conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns       int    `yaml:"max-idle-conns" env:"DB_MAX_IDLE_CONNS" env-default:"25"`
	ConnMaxLifetimeMin int    `yaml:"conn-max-lifetime-minutes" env:"DB_CONN_MAX_LIFETIME_MINUTES" env-default:"5"`
}

type Redis struct {
	Addr     string        `yaml:"addr" env:"REDIS_URL" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	CacheTTL time.Duration `yaml:"cache-ttl" env:"CACHE_TTL" env-default:"30s"`
}

type Auth struct {
	JWTSecret       string `yaml:"jwt-secret" env:"JWT_SECRET" env-default:"your-secret-key-change-this-in-production"`
	ExpirationHours int    `yaml:"jwt-expiration-hours" env:"JWT_EXPIRATION_HOURS" env-default:"72"`
	BcryptCost      int    `yaml:"bcrypt-cost" env:"BCRYPT_COST" env-default:"12"`
}

type Game struct {
	SweepInterval        time.Duration `yaml:"sweep-interval" env:"SWEEP_INTERVAL" env-default:"250ms"`
	QuickPlayBoardSize   int           `yaml:"quickplay-board-size" env:"QUICKPLAY_BOARD_SIZE" env-default:"15"`
	QuickPlayTurnSeconds int           `yaml:"quickplay-turn-seconds" env:"QUICKPLAY_TURN_SECONDS" env-default:"30"`
	LeaderboardSize      int           `yaml:"leaderboard-size" env:"LEADERBOARD_SIZE" env-default:"10"`
}

type Notify struct {
	QueueSize    int           `yaml:"queue-size" env:"NOTIFY_QUEUE_SIZE" env-default:"64"`
	WriteTimeout time.Duration `yaml:"write-timeout" env:"NOTIFY_WRITE_TIMEOUT" env-default:"10s"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"console"`
}

// Load reads the YAML file named by CONFIG_PATH when it exists, otherwise the
// environment alone. Environment variables override file values.
func Load() (*Config, error) {
	cfg := &Config{}

	path := strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("unable to load config file: %w", err)
			}
			return cfg, nil
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("unable to read environment: %w", err)
	}
	return cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.ExpirationHours) * time.Hour
}
