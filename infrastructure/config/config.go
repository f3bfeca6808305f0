package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Storage
	DataDir string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Nutrition estimator (OpenAI-compatible chat completions API)
	EstimatorAPIKey     string
	EstimatorBaseURL    string
	EstimatorModel      string
	EstimatorImageModel string
	EstimatorMaxTokens  int

	// Logging
	LogLevel string

	// Feature flags
	EnableCORS bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		DataDir: getEnv("DATA_DIR", "./data"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "dkcal-backend"),

		EstimatorAPIKey:     getEnv("ESTIMATOR_API_KEY", ""),
		EstimatorBaseURL:    getEnv("ESTIMATOR_BASE_URL", "https://api.groq.com/openai/v1"),
		EstimatorModel:      getEnv("ESTIMATOR_MODEL", "compound-beta"),
		EstimatorImageModel: getEnv("ESTIMATOR_IMAGE_MODEL", "meta-llama/llama-4-scout-17b-16e-instruct"),
		EstimatorMaxTokens:  getEnvInt("ESTIMATOR_MAX_TOKENS", 500),

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		EnableCORS: getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required in production")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
