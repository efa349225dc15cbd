package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// DotEnvFile is read before the environment when it exists. Variables that
// are already set win over the file.
const DotEnvFile = ".env"

// Config holds all service settings, populated from environment variables.
type Config struct {
	APIHost         string
	APIPort         int
	CORSOrigins     []string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// HomeHarvest scraper sidecar.
	ScraperURL       string
	ScraperTimeout   time.Duration
	ScraperCacheSize int
	ScraperCacheTTL  time.Duration

	// Search event publishing.
	KafkaBrokers        []string
	KafkaSearchTopic    string
	SearchEventsEnabled bool
}

// HTTPAddr is the listen address for the API server.
func (c *Config) HTTPAddr() string {
	return net.JoinHostPort(c.APIHost, strconv.Itoa(c.APIPort))
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	port, err := strconv.Atoi(sharedcfg.EnvOrDefault("API_PORT", "8000"))
	if err != nil || port < 1 || port > 65535 {
		return nil, errors.New("invalid API_PORT")
	}

	scraperTimeout, err := parsePositiveDuration("SCRAPER_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parsePositiveDuration("SCRAPER_CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}

	cacheSize, err := strconv.Atoi(sharedcfg.EnvOrDefault("SCRAPER_CACHE_SIZE", "0"))
	if err != nil || cacheSize < 0 {
		return nil, errors.New("invalid SCRAPER_CACHE_SIZE")
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}
	eventsEnabled := len(brokers) > 0
	if v := os.Getenv("SEARCH_EVENTS_ENABLED"); v != "" {
		eventsEnabled = v == "true"
	}

	cfg := &Config{
		APIHost:         sharedcfg.EnvOrDefault("API_HOST", "0.0.0.0"),
		APIPort:         port,
		CORSOrigins:     parseList(sharedcfg.EnvOrDefault("CORS_ORIGINS", "http://localhost:3000")),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ScraperURL:       strings.TrimRight(sharedcfg.EnvOrDefault("SCRAPER_URL", "http://localhost:8001"), "/"),
		ScraperTimeout:   scraperTimeout,
		ScraperCacheSize: cacheSize,
		ScraperCacheTTL:  cacheTTL,

		KafkaBrokers:        brokers,
		KafkaSearchTopic:    sharedcfg.EnvOrDefault("KAFKA_SEARCH_TOPIC", "property-searches"),
		SearchEventsEnabled: eventsEnabled,
	}

	if u, err := url.Parse(cfg.ScraperURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("SCRAPER_URL must be an absolute URL")
	}
	if cfg.SearchEventsEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("SEARCH_EVENTS_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.SearchEventsEnabled && cfg.KafkaSearchTopic == "" {
		return nil, errors.New("KAFKA_SEARCH_TOPIC is required")
	}

	return cfg, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
