package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"gopkg.in/yaml.v3"
)

// Config holds all service settings, populated from environment variables
// layered over an optional YAML file named by CONFIG_FILE.
type Config struct {
	APIBaseURL string
	APITimeout time.Duration

	DefaultDays     int
	ReloadInterval  time.Duration
	DisplayTimezone *time.Location
	ExportDir       string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka publishing of normalized events.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// fileConfig is the YAML overlay. Every value is a default that the matching
// environment variable overrides.
type fileConfig struct {
	API struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`
	Dashboard struct {
		DefaultDays    int    `yaml:"default_days"`
		ReloadInterval string `yaml:"reload_interval"`
		Timezone       string `yaml:"timezone"`
		ExportDir      string `yaml:"export_dir"`
	} `yaml:"dashboard"`
	HTTPAddr  string `yaml:"http_addr"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Kafka     struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`
}

const maxDays = 3650

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	var file fileConfig
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read CONFIG_FILE: %w", err)
		}
		if err := yaml.Unmarshal(b, &file); err != nil {
			return nil, fmt.Errorf("parse CONFIG_FILE: %w", err)
		}
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	apiTimeout, err := parseDuration("API_TIMEOUT", or(file.API.Timeout, "10s"))
	if err != nil {
		return nil, err
	}

	reloadInterval, err := parseDuration("RELOAD_INTERVAL", or(file.Dashboard.ReloadInterval, "5m"))
	if err != nil {
		return nil, err
	}

	defaultDays, err := parseDays(file.Dashboard.DefaultDays)
	if err != nil {
		return nil, err
	}

	tzName := sharedcfg.EnvOrDefault("DISPLAY_TIMEZONE", or(file.Dashboard.Timezone, "UTC"))
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
	}

	brokers := file.Kafka.Brokers
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		APIBaseURL:      strings.TrimRight(sharedcfg.EnvOrDefault("API_BASE_URL", or(file.API.BaseURL, "http://localhost:5000")), "/"),
		APITimeout:      apiTimeout,
		DefaultDays:     defaultDays,
		ReloadInterval:  reloadInterval,
		DisplayTimezone: loc,
		ExportDir:       sharedcfg.EnvOrDefault("EXPORT_DIR", or(file.Dashboard.ExportDir, ".")),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", or(file.HTTPAddr, ":8080")),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", or(file.LogLevel, "info")),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", or(file.LogFormat, "json")),
		ShutdownTimeout: shutdownTimeout,
		KafkaBrokers:    brokers,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", or(file.Kafka.Topic, "space-weather-events")),
		KafkaEnabled:    kafkaEnabled,
	}

	if cfg.APIBaseURL == "" {
		return nil, errors.New("API_BASE_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when Kafka is enabled")
	}

	return cfg, nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseDays(fileDays int) (int, error) {
	days := 30
	if fileDays != 0 {
		days = fileDays
	}
	if s := os.Getenv("DEFAULT_DAYS"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, errors.New("invalid DEFAULT_DAYS")
		}
		days = n
	}
	if days < 1 || days > maxDays {
		return 0, fmt.Errorf("DEFAULT_DAYS must be between 1 and %d", maxDays)
	}
	return days, nil
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
