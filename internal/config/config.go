package config

import (
	"fmt"
	"net/url"
	"os"
)

// Config carries everything the server reads from the environment.
type Config struct {
	Port       string
	DBHost     string
	DBPort     string
	DBUsername string
	DBPassword string
	DBDatabase string
}

// Load reads the configuration from the environment, falling back to
// development defaults.
func Load() Config {
	return Config{
		Port:       getenv("PORT", "8080"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUsername: getenv("DB_USERNAME", "postgres"),
		DBPassword: getenv("DB_PASSWORD", "postgres"),
		DBDatabase: getenv("DB_DATABASE", "blog"),
	}
}

// DSN renders the PostgreSQL connection URL for pgx.
func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=disable",
		url.UserPassword(c.DBUsername, c.DBPassword).String(),
		c.DBHost, c.DBPort, c.DBDatabase)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
