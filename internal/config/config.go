package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Run modes supported by the process entrypoint.
const (
	ModeOnce  = "once"
	ModeServe = "serve"
)

// Config holds all configuration for the application.
type Config struct {
	// Run configuration
	RunMode     string        `json:"run_mode" validate:"oneof=once serve"`
	Topic       string        `json:"topic" validate:"required"`
	AutoPost    bool          `json:"auto_post"`
	MaxPosts    int           `json:"max_posts" validate:"gte=0"`
	RunInterval time.Duration `json:"run_interval" validate:"gte=0"`

	// News API
	NewsAPIKey  string `json:"news_api_key"`
	NewsBaseURL string `json:"news_base_url" validate:"required,url"`

	// AI configuration
	AIApiKey   string `json:"ai_api_key"`
	AIModel    string `json:"ai_model" validate:"required"`
	AIEndpoint string `json:"ai_endpoint" validate:"required,url"`
	AITimeout  int    `json:"ai_timeout" validate:"gt=0"`

	// Social platform (X) credentials
	TwitterAPIKey       string `json:"twitter_api_key"`
	TwitterAPISecret    string `json:"twitter_api_secret"`
	TwitterAccessToken  string `json:"twitter_access_token"`
	TwitterAccessSecret string `json:"twitter_access_secret"`
	TwitterHandle       string `json:"twitter_handle" validate:"required"`

	// Redis configuration (optional dedupe cache)
	RedisURL    string        `json:"redis_url"`
	RedisPrefix string        `json:"redis_prefix"`
	CacheTTL    time.Duration `json:"cache_ttl"`

	// Storage
	StoragePath string `json:"storage_path" validate:"required"`

	// CloudFlare R2 configuration (optional report mirror)
	R2Endpoint  string `json:"r2_endpoint"`
	R2AccessKey string `json:"r2_access_key"`
	R2SecretKey string `json:"r2_secret_key"`
	R2Bucket    string `json:"r2_bucket"`

	// Server configuration (serve mode)
	Port            string        `json:"port" validate:"required"`
	HTTPTimeout     time.Duration `json:"http_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	AdminAPIKey     string        `json:"admin_api_key"`

	// Logging
	LogLevel string `json:"log_level"`
}

// Load loads configuration from environment variables and validates it.
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		// Run configuration
		RunMode:     getEnv("RUN_MODE", ModeOnce),
		Topic:       getEnv("NEWS_TOPIC", "india"),
		AutoPost:    getEnvAsBool("AUTO_POST", false),
		MaxPosts:    getEnvAsInt("MAX_POSTS_PER_RUN", 2),
		RunInterval: getEnvAsDuration("RUN_INTERVAL", 0),

		// News API
		NewsAPIKey:  getEnv("NEWS_API_KEY", ""),
		NewsBaseURL: getEnv("NEWS_API_URL", "https://newsapi.org/v2/everything"),

		// AI configuration
		AIApiKey:   getEnv("AI_API_KEY", ""),
		AIModel:    getEnv("AI_MODEL", "gpt-4o-mini"),
		AIEndpoint: getEnv("AI_ENDPOINT", "https://api.openai.com/v1/chat/completions"),
		AITimeout:  getEnvAsInt("AI_TIMEOUT", 60),

		// Social platform
		TwitterAPIKey:       getEnv("TWITTER_API_KEY", ""),
		TwitterAPISecret:    getEnv("TWITTER_API_SECRET", ""),
		TwitterAccessToken:  getEnv("TWITTER_ACCESS_TOKEN", ""),
		TwitterAccessSecret: getEnv("TWITTER_ACCESS_SECRET", ""),
		TwitterHandle:       getEnv("TWITTER_HANDLE", "user"),

		// Redis configuration
		RedisURL:    getEnv("REDIS_URL", ""),
		RedisPrefix: getEnv("REDIS_PREFIX", "newscast:"),
		CacheTTL:    getEnvAsDuration("CACHE_TTL", 720*time.Hour), // 30 days

		// Storage
		StoragePath: getEnv("STORAGE_PATH", "./data"),

		// CloudFlare R2 configuration
		R2Endpoint:  getEnv("R2_ENDPOINT", ""),
		R2AccessKey: getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:    getEnv("R2_BUCKET", "newscast"),

		// Server configuration
		Port:            getEnv("PORT", "8080"),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		AdminAPIKey:     getEnv("ADMIN_API_KEY", ""),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(errs))
			for _, fe := range errs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid fields: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

// SocialConfigured reports whether all platform credentials are present.
func (c *Config) SocialConfigured() bool {
	return c.TwitterAPIKey != "" && c.TwitterAPISecret != "" &&
		c.TwitterAccessToken != "" && c.TwitterAccessSecret != ""
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

// getEnvAsBool accepts the case-insensitive literals "true" and "false".
func getEnvAsBool(name string, defaultVal bool) bool {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	switch strings.ToLower(strings.TrimSpace(valueStr)) {
	case "true":
		return true
	case "false":
		return false
	default:
		log.Printf("Invalid %s value: %q, using default: %t", name, valueStr, defaultVal)
		return defaultVal
	}
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
