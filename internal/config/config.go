package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database; empty selects the in-memory store
	DatabaseURL string

	// Redis; empty disables event fan-out
	RedisURL string

	// Identity
	TokenSecret       string
	AdminPasswordHash string

	// Gemini AI; empty key disables pond seeding
	GeminiAPIKey         string
	GeminiModel          string
	GeminiConcurrentReqs int
	SeedMaxRetries       int

	// Scheduling
	SchedulerPolicy string

	// Frontend
	StaticDir   string
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		DatabaseURL:          getEnvOrDefault("DATABASE_URL", ""),
		RedisURL:             getEnvOrDefault("REDIS_URL", ""),
		TokenSecret:          mustGetEnv("TOKEN_SECRET"),
		AdminPasswordHash:    getEnvOrDefault("ADMIN_PASSWORD_HASH", ""),
		GeminiAPIKey:         getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		SeedMaxRetries:       getEnvAsIntOrDefault("SEED_MAX_RETRIES", 2),
		SchedulerPolicy:      getEnvOrDefault("SCHEDULER_POLICY", "ladder"),
		StaticDir:            getEnvOrDefault("STATIC_DIR", "./build"),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
