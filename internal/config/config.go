package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	App    AppConfig
	Server ServerConfig
	LLM    LLMConfig
}

type AppConfig struct {
	Environment           string
	LogFilePath           string
	ReportsDir            string
	InterviewSettingsPath string
}

type ServerConfig struct {
	Port               int
	CORSAllowedOrigins string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
}

// LLMConfig configures the language model gateway.
type LLMConfig struct {
	Provider    string
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Load reads the process configuration from environment variables.
func Load() *Config {
	return &Config{
		App: AppConfig{
			Environment:           getEnv("GO_ENV", "development"),
			LogFilePath:           getEnv("LOG_FILE_PATH", "logs/interview-api.log"),
			ReportsDir:            getEnv("REPORTS_DIR", ""),
			InterviewSettingsPath: getEnv("INTERVIEW_SETTINGS_PATH", "config/interview.yaml"),
		},
		Server: ServerConfig{
			Port:               getEnvAsInt("SERVER_PORT", 8080),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			ReadTimeout:        getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:       getEnvAsDuration("SERVER_WRITE_TIMEOUT", 2*time.Minute),
			ShutdownTimeout:    getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		LLM: LLMConfig{
			Provider:    getEnv("LLM_PROVIDER", "openai"),
			BaseURL:     getEnv("LLM_BASE_URL", "https://api.openai.com"),
			APIKey:      getEnv("LLM_API_KEY", ""),
			Model:       getEnv("LLM_MODEL", "gpt-4o-mini"),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			MaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 1000),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
		},
	}
}

// Validate checks the gateway configuration before any request is made.
func (c *LLMConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}

	if c.MaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive")
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
