package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port            string        `env:"PORT" envDefault:"8000"`
	Env             string        `env:"ENV" envDefault:"development"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"120s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Gemini AI
	GeminiAPIKey string `env:"GEMINI_API_KEY,required"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`

	// Uploads
	MaxUploadBytes   int64 `env:"MAX_UPLOAD_BYTES" envDefault:"20971520"`
	ImageJPEGQuality int   `env:"IMAGE_JPEG_QUALITY" envDefault:"90"`
	MaxImagePixels   int   `env:"MAX_IMAGE_PIXELS" envDefault:"89478485"`

	// CORS
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads .env (if present) and the process environment. A missing or
// blank GEMINI_API_KEY is an error; callers must not start without it.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.GeminiAPIKey) == "" {
		return errors.New("required environment variable GEMINI_API_KEY is not set")
	}
	if strings.TrimSpace(c.GeminiModel) == "" {
		return errors.New("GEMINI_MODEL must not be blank")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.MaxImagePixels <= 0 {
		return fmt.Errorf("MAX_IMAGE_PIXELS must be positive, got %d", c.MaxImagePixels)
	}
	if c.ImageJPEGQuality < 1 || c.ImageJPEGQuality > 100 {
		return fmt.Errorf("IMAGE_JPEG_QUALITY must be between 1 and 100, got %d", c.ImageJPEGQuality)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
