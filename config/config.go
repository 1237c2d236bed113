package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all the configuration for the application
type Config struct {
	BotToken    string   `validate:"required_without=HTTPAddr"`
	HTTPAddr    string   `validate:"omitempty,hostname_port"`
	CORSOrigins []string `validate:"dive,required"`
	CacheDriver string   `validate:"oneof=sqlite sqlite3 redis none"`
	DBPath      string   `validate:"required_if=CacheDriver sqlite,required_if=CacheDriver sqlite3"`
	RedisAddr   string   `validate:"required_if=CacheDriver redis"`
	FontPath    string   `validate:"omitempty,file"`
	Debug       bool
}

var validate = validator.New()

// Load loads the configuration from environment variables, reading a .env
// file in the working directory first when one exists
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not load .env: %v", err)
	}
	return FromEnv()
}

// FromEnv builds and validates the configuration from the environment only
func FromEnv() (*Config, error) {
	cfg := &Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		HTTPAddr:    os.Getenv("HTTP_ADDR"),
		CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),
		CacheDriver: getenv("CACHE_DRIVER", "sqlite"),
		DBPath:      getenv("DB_PATH", "./data/gauges.db"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		FontPath:    os.Getenv("GAUGE_FONT"),
		Debug:       os.Getenv("DEBUG") == "true",
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
