package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenAddr string
	LogLevel   string

	OpenAIKey         string
	OpenAIModel       string
	OpenAIBaseURL     string
	Temperature       float64
	LLMProvider       string
	CompletionTimeout time.Duration
	EstimateTokens    bool

	ServeStatic bool
	StaticDir   string

	AnalyticsDriver string
	DBHost          string
	DBPort          int
	DBUser          string
	DBPassword      string
	DBName          string
	SQLitePath      string

	JWTSecret string
}

const (
	ProviderOpenAI    = "openai"
	ProviderLangChain = "langchain"
)

func Load() *Config {

	// DB_PORT falls back to the postgres default
	portStr := os.Getenv("DB_PORT")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 5432
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-3.5-turbo"
	}

	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	if provider != ProviderLangChain {
		provider = ProviderOpenAI
	}

	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":5001"),
		LogLevel:   strings.ToLower(getEnv("LOG_LEVEL", "info")),

		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       model,
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		Temperature:       getEnvFloat("OPENAI_TEMPERATURE", 0.8),
		LLMProvider:       provider,
		CompletionTimeout: getEnvDuration("COMPLETION_TIMEOUT", 0),
		EstimateTokens:    getEnvBool("ESTIMATE_TOKENS", false),

		ServeStatic: getEnvBool("SERVE_STATIC", true),
		StaticDir:   getEnv("STATIC_DIR", "."),

		AnalyticsDriver: strings.ToLower(strings.TrimSpace(os.Getenv("ANALYTICS_DRIVER"))),
		DBHost:          os.Getenv("DB_HOST"),
		DBPort:          port,
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          os.Getenv("DB_NAME"),
		SQLitePath:      getEnv("SQLITE_PATH", "questbot.db"),

		JWTSecret: os.Getenv("JWT_SECRET"),
	}
}

// ConnString returns the DSN for the configured analytics driver, or "" when
// analytics storage is off.
func (c *Config) ConnString() string {
	switch c.AnalyticsDriver {
	case "postgres":
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
		)
	case "sqlite3":
		return c.SQLitePath
	default:
		return ""
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}
