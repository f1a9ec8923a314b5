package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DatabaseHost     string
	DatabasePort     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string

	Port        string
	JWTSecret   string
	CORSOrigins []string

	SendGridAPIKey string
	MailFrom       string
	LogLevel       string
}

// Load reads the optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseHost:     getEnv("DATABASE_HOST", "localhost"),
		DatabasePort:     getEnv("DATABASE_PORT", "5432"),
		DatabaseUser:     os.Getenv("DATABASE_USER"),
		DatabasePassword: os.Getenv("DATABASE_PASSWORD"),
		DatabaseName:     os.Getenv("DATABASE_NAME"),
		Port:             getEnv("PORT", "3001"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		MailFrom:         getEnv("MAIL_FROM", "no-reply@shopping.local"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	if cfg.DatabaseName == "" {
		return nil, errors.New("DATABASE_NAME environment variable not set")
	}
	if cfg.DatabaseUser == "" {
		return nil, errors.New("DATABASE_USER environment variable not set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable not set")
	}
	return cfg, nil
}

// DSN builds the keyword/value connection string pgxpool expects.
func (c *Config) DSN() string {
	parts := []string{
		"host=" + quoteValue(c.DatabaseHost),
		"port=" + quoteValue(c.DatabasePort),
		"user=" + quoteValue(c.DatabaseUser),
		"database=" + quoteValue(c.DatabaseName),
	}
	if c.DatabasePassword != "" {
		parts = append(parts, "password="+quoteValue(c.DatabasePassword))
	}
	return strings.Join(parts, " ")
}

// quoteValue single-quotes a keyword/value entry, escaping backslashes and quotes.
func quoteValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
