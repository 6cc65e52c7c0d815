package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Chat     ChatConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
	LogLevel   string // "silent" | "error" | "warn" | "info"
}

type AIConfig struct {
	LLMProvider    string // "gemini" | "ollama" | "openai"
	LLMModel       string
	OllamaBaseURL  string
	OpenAIBaseURL  string
	GeminiAPIKey   string
	OpenAIAPIKey   string
	RequestTimeout time.Duration
	DailyLimit     int // assistant calls per user per day, < 0 means unlimited
}

type ChatConfig struct {
	MatchLimit      int           // per-term cap on catalog rows, 0 means unbounded
	QueryTimeout    time.Duration // per catalog query
	WidenSynonyms   bool          // also query synonym terms, off by default
	TranscriptMode  string        // "sync" | "async"
	TranscriptTopic string
}

const (
	TranscriptModeSync  = "sync"
	TranscriptModeAsync = "async"
)

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			LogLevel:   getEnv("DB_LOG_LEVEL", "warn"),
		},
		Ai: AIConfig{
			LLMProvider:    getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:       getEnv("LLM_MODEL", "gemini-1.5-flash"),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
			GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
			OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
			RequestTimeout: getEnvAsDuration("LLM_REQUEST_TIMEOUT", 60*time.Second),
			DailyLimit:     getEnvAsInt("ASSISTANT_DAILY_LIMIT", 50),
		},
		Chat: ChatConfig{
			MatchLimit:      getEnvAsInt("CHAT_MATCH_LIMIT", 50),
			QueryTimeout:    getEnvAsDuration("CHAT_QUERY_TIMEOUT", 5*time.Second),
			WidenSynonyms:   getEnvAsBool("CHAT_WIDEN_SYNONYMS", false),
			TranscriptMode:  getEnv("CHAT_TRANSCRIPT_MODE", TranscriptModeSync),
			TranscriptTopic: getEnv("CHAT_TRANSCRIPT_TOPIC", "CHAT_TRANSCRIPT"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
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

// getEnvAsDuration accepts Go duration strings ("5s", "250ms").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
