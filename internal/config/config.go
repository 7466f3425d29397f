package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/GregMSThompson/fintrack/internal/money"
)

type Config struct {
	ProjectID      string
	Port           string
	LogLevel       string
	KMSKeyName     string // optional; notes are stored in plaintext without it
	AMQPURL        string // optional; events are dropped without it
	AMQPExchange   string
	CurrencySymbol string
	Timezone       string
}

// New reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func New() *Config {
	_ = godotenv.Load()

	return &Config{
		ProjectID:      os.Getenv("PROJECTID"),
		Port:           getEnv("PORT", "8080"),
		LogLevel:       os.Getenv("LOGLEVEL"),
		KMSKeyName:     os.Getenv("KMSKEYNAME"),
		AMQPURL:        os.Getenv("AMQPURL"),
		AMQPExchange:   getEnv("AMQPEXCHANGE", "fintrack.events"),
		CurrencySymbol: getEnv("CURRENCYSYMBOL", money.DefaultSymbol),
		Timezone:       getEnv("TIMEZONE", "Africa/Accra"),
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if c.ProjectID == "" {
		problems = append(problems, "PROJECTID is required")
	}
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid PORT %q", c.Port))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("invalid TIMEZONE %q: %v", c.Timezone, err))
	}
	if c.AMQPURL != "" {
		u, err := url.Parse(c.AMQPURL)
		switch {
		case err != nil:
			problems = append(problems, fmt.Sprintf("invalid AMQPURL: %v", err))
		case u.Scheme != "amqp" && u.Scheme != "amqps":
			problems = append(problems, fmt.Sprintf("invalid AMQPURL scheme %q", u.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQPEXCHANGE is required when AMQPURL is set")
		}
	}

	if len(problems) > 0 {
		return errors.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// Location returns the zone months are bucketed in. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
