package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Ai        AIConfig
	RateLimit RateLimitConfig
	OAuth     OAuthConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string // where the OAuth callback hands the token back
	Environment        string
	LogFilePath        string
	RequestLogPath     string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
	JwtTTL             time.Duration
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
}

type AIConfig struct {
	LLMProvider   string // "gemini" or "ollama"
	LLMModel      string
	ImageModel    string
	OllamaBaseURL string
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type OAuthConfig struct {
	XClientID     string
	XClientSecret string
	XRedirectURL  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	baseURL := getEnv("APP_BASE_URL", "http://localhost:3001")

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3001"),
			BaseURL:            baseURL,
			ClientURL:          getEnv("CLIENT_URL", "http://127.0.0.1:8765/callback"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			RequestLogPath:     getEnv("REQUEST_LOG_PATH", "logs/requests.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", ""),
			JwtSecret:          getEnv("JWT_SECRET", ""),
			JwtTTL:             time.Duration(getEnvAsInt("JWT_TTL_HOURS", 72)) * time.Hour,
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: firstEnv("GEMINI_API_KEY", "GOOGLE_GEMINI_API_KEY"),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:      getEnv("LLM_MODEL", ""),
			ImageModel:    getEnv("IMAGE_MODEL", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		RateLimit: RateLimitConfig{
			Max:    getEnvAsInt("RATE_LIMIT_MAX", 100),
			Window: time.Duration(getEnvAsInt("RATE_LIMIT_WINDOW_MINUTES", 15)) * time.Minute,
		},
		OAuth: OAuthConfig{
			XClientID:     getEnv("X_CLIENT_ID", ""),
			XClientSecret: getEnv("X_CLIENT_SECRET", ""),
			XRedirectURL:  getEnv("X_REDIRECT_URL", strings.TrimRight(baseURL, "/")+"/api/auth/x/callback"),
		},
	}
}

// ClientConfig holds the command line client's settings. Flags override it.
type ClientConfig struct {
	BackendURL string
	Home       string
	Token      string
	Sandbox    bool
	NoColor    bool
}

func LoadClient() *ClientConfig {
	_ = godotenv.Load()

	home := getEnv("NICHELENS_HOME", "")
	if home == "" {
		if dir, err := os.UserHomeDir(); err == nil {
			home = filepath.Join(dir, ".nichelens")
		} else {
			home = ".nichelens"
		}
	}

	return &ClientConfig{
		BackendURL: getEnv("NICHELENS_BACKEND_URL", "http://localhost:3001"),
		Home:       home,
		Token:      getEnv("NICHELENS_TOKEN", ""),
		Sandbox:    getEnvAsBool("NICHELENS_SANDBOX", false),
		NoColor:    getEnvAsBool("NO_COLOR", false),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
