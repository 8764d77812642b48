package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Config holds every setting read from the environment at startup.
type Config struct {
	Port        string `env:"PORT" default:"8080"`
	GinMode     string `env:"GIN_MODE" default:"release"`
	DatabaseURL string `env:"DB_URL"`

	JWTSecret   string `env:"JWT_SECRET"`
	JWTTTLHours int    `env:"JWT_TTL_HOURS" default:"72"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL" default:"gpt-4o-mini"`

	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`

	ChatRatePerSecond float64 `env:"CHAT_RATE_PER_SECOND" default:"0.5"`
	ChatRateBurst     int     `env:"CHAT_RATE_BURST" default:"5"`

	AllowedOrigin string `env:"ALLOWED_ORIGIN" default:"*"`
	LogLevel      string `env:"LOG_LEVEL" default:"info"`
	LogFile       string `env:"LOG_FILE" default:"logs/app.json"`
}

var current *Config

// Load reads .env (if present) and the process environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	current = &cfg
	return &cfg, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"DB_URL":     cfg.DatabaseURL,
		"JWT_SECRET": cfg.JWTSecret,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if cfg.JWTTTLHours <= 0 {
		return fmt.Errorf("JWT_TTL_HOURS must be positive, got %d", cfg.JWTTTLHours)
	}
	if cfg.ChatRatePerSecond <= 0 || cfg.ChatRateBurst <= 0 {
		return fmt.Errorf("CHAT_RATE_PER_SECOND and CHAT_RATE_BURST must be positive")
	}

	return nil
}

// Get returns the loaded configuration, or an empty one before Load has run.
func Get() *Config {
	if current == nil {
		return &Config{JWTTTLHours: 72}
	}
	return current
}

// Set replaces the active configuration. Used by main and tests.
func Set(cfg *Config) {
	current = cfg
}
