package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Environment        string
	LogLevel           string
	HTTPAddr           string
	StorageDriver      string
	DBDSN              string
	RateLimitRPS       float64
	RateLimitBurst     int
	StrictAvailability bool
	OTelEnabled        bool
	OTelEndpoint       string
	ShutdownTimeout    time.Duration
}

// Load reads .env when present and then the process environment.
// It reports whether a .env file was found so the caller can log it.
func Load() (*Config, bool, error) {
	fromFile := godotenv.Load(".env") == nil

	cfg, err := FromLookup(os.LookupEnv)
	if err != nil {
		return nil, fromFile, err
	}
	return cfg, fromFile, nil
}

// FromLookup builds a Config from lookup, applying defaults. All invalid values
// are reported together.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	p := parser{lookup: lookup}

	cfg := &Config{
		Environment:        p.str("ENV", "development"),
		LogLevel:           p.str("LOG_LEVEL", "info"),
		HTTPAddr:           p.str("HTTP_ADDR", ":8080"),
		StorageDriver:      strings.ToLower(p.str("STORAGE_DRIVER", DriverPostgres)),
		DBDSN:              p.str("DB_DSN", ""),
		RateLimitRPS:       p.number("RATE_LIMIT_RPS", 20),
		RateLimitBurst:     p.integer("RATE_LIMIT_BURST", 40),
		StrictAvailability: p.boolean("STRICT_AVAILABILITY", false),
		OTelEnabled:        p.boolean("OTEL_ENABLED", false),
		OTelEndpoint:       p.str("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		ShutdownTimeout:    p.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	switch cfg.StorageDriver {
	case DriverPostgres:
		if cfg.DBDSN == "" {
			p.fail("DB_DSN is required when STORAGE_DRIVER=postgres")
		}
	case DriverMemory:
	default:
		p.fail(fmt.Sprintf("STORAGE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, cfg.StorageDriver))
	}
	if cfg.RateLimitRPS < 0 {
		p.fail("RATE_LIMIT_RPS must not be negative")
	}
	if cfg.RateLimitBurst < 1 {
		p.fail("RATE_LIMIT_BURST must be at least 1")
	}

	if len(p.errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(p.errs...))
	}
	return cfg, nil
}

type parser struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (p *parser) fail(msg string) {
	p.errs = append(p.errs, errors.New(msg))
}

func (p *parser) raw(key string) (string, bool) {
	v, ok := p.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (p *parser) str(key, def string) string {
	if v, ok := p.raw(key); ok {
		return v
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(fmt.Sprintf("%s must be an integer, got %q", key, v))
		return def
	}
	return n
}

func (p *parser) number(key string, def float64) float64 {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(fmt.Sprintf("%s must be a number, got %q", key, v))
		return def
	}
	return f
}

func (p *parser) boolean(key string, def bool) bool {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(fmt.Sprintf("%s must be a boolean, got %q", key, v))
		return def
	}
	return b
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(fmt.Sprintf("%s must be a duration, got %q", key, v))
		return def
	}
	return d
}
