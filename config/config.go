package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port                 string        `mapstructure:"PORT"`
	DatabaseURL          string        `mapstructure:"DATABASE_URL"`
	AllowedOrigins       string        `mapstructure:"ALLOWED_ORIGINS"`
	GatewayServiceToken  string        `mapstructure:"GATEWAY_SERVICE_TOKEN"`
	AuthServiceURL       string        `mapstructure:"AUTH_SERVICE_URL"`
	RedisAddr            string        `mapstructure:"REDIS_ADDR"`
	RedisPassword        string        `mapstructure:"REDIS_PASSWORD"`
	RateLimitPerMinute   int           `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	MissionSweepInterval time.Duration `mapstructure:"MISSION_SWEEP_INTERVAL"`
}

var keys = []string{
	"PORT",
	"DATABASE_URL",
	"ALLOWED_ORIGINS",
	"GATEWAY_SERVICE_TOKEN",
	"AUTH_SERVICE_URL",
	"REDIS_ADDR",
	"REDIS_PASSWORD",
	"RATE_LIMIT_PER_MINUTE",
	"MISSION_SWEEP_INTERVAL",
}

// Load reads .env (if present) into the process environment, then an optional app.env
// under path, then the environment itself.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "5200")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 30)
	v.SetDefault("MISSION_SWEEP_INTERVAL", "1m")
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate reports the first missing or invalid setting.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL environment variable not set")
	}
	if c.GatewayServiceToken == "" {
		return errors.New("GATEWAY_SERVICE_TOKEN environment variable not set")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be >= 0, got %d", c.RateLimitPerMinute)
	}
	if c.MissionSweepInterval <= 0 {
		return fmt.Errorf("MISSION_SWEEP_INTERVAL must be positive, got %s", c.MissionSweepInterval)
	}
	return nil
}

// Origins splits ALLOWED_ORIGINS and trims each entry.
func (c Config) Origins() []string {
	var out []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}
