package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CatalogFile        string
	CurrencySymbol     string
	SessionTTL         time.Duration
	SessionSweepEvery  time.Duration
	DemoSeed           bool
	CORSAllowedOrigins []string

	// Session creation limit per client; zero disables it.
	SessionCreatePerMinute int
	SessionCreateBurst     int

	// Appointment event publishing: none, redis or sqs
	EventsBackend  string
	RedisAddr      string
	RedisPassword  string
	RedisTLS       bool
	EventsRedisKey string
	EventsMaxLen   int
	EventsQueueURL string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Confirmation email: stub, sendgrid or ses
	EmailProvider  string
	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string
	SESConfigSet   string
}

// Load reads configuration from environment variables, after loading an
// optional .env file from the working directory.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CatalogFile:        getEnv("CATALOG_FILE", ""),
		CurrencySymbol:     getEnv("CURRENCY_SYMBOL", "R$"),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 2*time.Hour),
		SessionSweepEvery:  getEnvAsDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		DemoSeed:           getEnvAsBool("DEMO_SEED_APPOINTMENTS", false),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),

		SessionCreatePerMinute: getEnvAsInt("SESSION_CREATE_PER_MINUTE", 0),
		SessionCreateBurst:     getEnvAsInt("SESSION_CREATE_BURST", 10),

		EventsBackend:  strings.ToLower(strings.TrimSpace(getEnv("EVENTS_BACKEND", "none"))),
		RedisAddr:      getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTLS:       getEnvAsBool("REDIS_TLS", false),
		EventsRedisKey: getEnv("EVENTS_REDIS_KEY", "appointments:events"),
		EventsMaxLen:   getEnvAsInt("EVENTS_MAX_LEN", 10000),
		EventsQueueURL: getEnv("EVENTS_QUEUE_URL", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		EmailProvider:  strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "stub"))),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", ""),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "Agendamento de Materiais"),
		SESConfigSet:   getEnv("SES_CONFIGURATION_SET", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
