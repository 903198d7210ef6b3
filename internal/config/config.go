package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server
	Port string `yaml:"port"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // json | console

	// Limits
	MaxUploadBytes  int64 `yaml:"max_upload_bytes"` // 0 = unlimited
	MultipartMemory int64 `yaml:"multipart_memory"`

	// Concurrency
	MaxConcurrentRequests int64 `yaml:"max_concurrent_requests"` // 0 = unlimited

	// Server timeouts
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`

	// Request timeouts
	OCRTimeout time.Duration `yaml:"ocr_timeout"` // 0 = none

	// Rasterization
	PDFDPI float64 `yaml:"pdf_dpi"`

	// Scratch space for uploads and page images ("" = os.TempDir())
	TempDir string `yaml:"temp_dir"`

	// housekeeping
	StatsInterval time.Duration `yaml:"stats_interval"`

	// http
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

func Defaults() Config {
	return Config{
		Port: "8080",

		LogLevel:  "info",
		LogFormat: "json",

		MaxUploadBytes:  0,
		MultipartMemory: 32 << 20,

		MaxConcurrentRequests: 8,

		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       0,
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   30 * time.Second,

		OCRTimeout: 0,

		PDFDPI: 200,

		StatsInterval: 5 * time.Minute,

		MaxHeaderBytes: 1 << 20,
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. A .env file in the working
// directory is loaded into the environment first when present. When path is
// empty CONFIG_PATH is consulted.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	if path == "" {
		path = strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	return cfg.withEnv(), nil
}

func (c Config) withEnv() Config {
	c.Port = envStr("PORT", c.Port)

	c.LogLevel = envStr("LOG_LEVEL", c.LogLevel)
	c.LogFormat = envStr("LOG_FORMAT", c.LogFormat)

	c.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", c.MaxUploadBytes)
	c.MultipartMemory = envInt64("MULTIPART_MEMORY", c.MultipartMemory)

	c.MaxConcurrentRequests = envInt64("MAX_CONCURRENT_REQUESTS", c.MaxConcurrentRequests)

	c.ReadHeaderTimeout = envDur("READ_HEADER_TIMEOUT", c.ReadHeaderTimeout)
	c.ReadTimeout = envDur("READ_TIMEOUT", c.ReadTimeout)
	c.WriteTimeout = envDur("WRITE_TIMEOUT", c.WriteTimeout)
	c.IdleTimeout = envDur("IDLE_TIMEOUT", c.IdleTimeout)
	c.ShutdownTimeout = envDur("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)

	c.OCRTimeout = envDur("OCR_TIMEOUT", c.OCRTimeout)

	c.PDFDPI = envFloat("PDF_DPI", c.PDFDPI)
	c.TempDir = envStr("TEMP_DIR", c.TempDir)

	c.StatsInterval = envDur("STATS_INTERVAL", c.StatsInterval)

	c.MaxHeaderBytes = envInt("MAX_HEADER_BYTES", c.MaxHeaderBytes)
	return c
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must not be negative")
	}
	if c.MultipartMemory <= 0 {
		return fmt.Errorf("MULTIPART_MEMORY must be positive")
	}
	if c.MaxConcurrentRequests < 0 {
		return fmt.Errorf("MAX_CONCURRENT_REQUESTS must not be negative")
	}
	if c.PDFDPI < 72 || c.PDFDPI > 1200 {
		return fmt.Errorf("PDF_DPI must be between 72 and 1200, got %g", c.PDFDPI)
	}
	if c.TempDir != "" {
		st, err := os.Stat(c.TempDir)
		if err != nil {
			return fmt.Errorf("TEMP_DIR: %w", err)
		}
		if !st.IsDir() {
			return fmt.Errorf("TEMP_DIR %s is not a directory", c.TempDir)
		}
	}
	return nil
}

func envStr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

func envDur(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
