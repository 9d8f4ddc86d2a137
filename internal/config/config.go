package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the console configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Backend BackendConfig `yaml:"backend"`
	Console ConsoleConfig `yaml:"console"`
	Redis   RedisConfig   `yaml:"redis"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Log     LogConfig     `yaml:"log"`
}

type HTTPConfig struct {
	Address       string `yaml:"address"`
	SecureCookies bool   `yaml:"secure_cookies"`
	// CSRFKey is a 32 byte hex key. A random key is generated when empty,
	// which invalidates open forms on restart.
	CSRFKey string `yaml:"csrf_key"`
}

type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type ConsoleConfig struct {
	DefaultPageSize int   `yaml:"default_page_size"`
	PageSizes       []int `yaml:"page_sizes"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	ToastTTL time.Duration `yaml:"toast_ttl"`
}

type KafkaConfig struct {
	Brokers    []string `yaml:"brokers"`
	AuditTopic string   `yaml:"audit_topic"`
}

type LogConfig struct {
	Path string `yaml:"path"`
	// Level is a slog level name: debug, info, warn or error.
	Level string `yaml:"level"`
}

// MinLevel returns the configured minimum level, INFO when unset.
func (c LogConfig) MinLevel() slog.Level {
	var l slog.Level
	if c.Level == "" || l.UnmarshalText([]byte(c.Level)) != nil {
		return slog.LevelInfo
	}
	return l
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{Address: ":8080"},
		Backend: BackendConfig{
			BaseURL: "http://localhost:8081",
			Timeout: 15 * time.Second,
		},
		Console: ConsoleConfig{
			DefaultPageSize: 5,
			PageSizes:       []int{5, 10, 20, 50},
		},
		Redis: RedisConfig{ToastTTL: 5 * time.Minute},
		Kafka: KafkaConfig{AuditTopic: "cruisedesk.audit"},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path,
// a .env file in the working directory and CRUISEDESK_* environment variables,
// each layer overriding the previous one.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("CRUISEDESK_ADDR", &c.HTTP.Address)
	str("CRUISEDESK_CSRF_KEY", &c.HTTP.CSRFKey)
	str("CRUISEDESK_BACKEND_URL", &c.Backend.BaseURL)
	str("CRUISEDESK_REDIS_ADDR", &c.Redis.Addr)
	str("CRUISEDESK_REDIS_PASSWORD", &c.Redis.Password)
	str("CRUISEDESK_KAFKA_TOPIC", &c.Kafka.AuditTopic)
	str("CRUISEDESK_LOG", &c.Log.Path)
	str("CRUISEDESK_LOG_LEVEL", &c.Log.Level)

	if v, ok := lookup("CRUISEDESK_SECURE_COOKIES"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing CRUISEDESK_SECURE_COOKIES: %w", err)
		}
		c.HTTP.SecureCookies = b
	}
	if v, ok := lookup("CRUISEDESK_BACKEND_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing CRUISEDESK_BACKEND_TIMEOUT: %w", err)
		}
		c.Backend.Timeout = d
	}
	if v, ok := lookup("CRUISEDESK_REDIS_DB"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing CRUISEDESK_REDIS_DB: %w", err)
		}
		c.Redis.DB = n
	}
	if v, ok := lookup("CRUISEDESK_KAFKA_BROKERS"); ok && v != "" {
		var brokers []string
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		c.Kafka.Brokers = brokers
	}
	return nil
}

// Validate rejects configurations the console cannot run with.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url is required")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}
	if len(c.Console.PageSizes) == 0 {
		return fmt.Errorf("console page_sizes must not be empty")
	}
	for _, n := range c.Console.PageSizes {
		if n <= 0 {
			return fmt.Errorf("console page size %d must be positive", n)
		}
	}
	if !slices.Contains(c.Console.PageSizes, c.Console.DefaultPageSize) {
		return fmt.Errorf("default page size %d is not one of %v", c.Console.DefaultPageSize, c.Console.PageSizes)
	}
	if c.Log.Level != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
			return fmt.Errorf("log level: %w", err)
		}
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.AuditTopic == "" {
		return fmt.Errorf("kafka audit_topic is required when brokers are set")
	}
	return nil
}
