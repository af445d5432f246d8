package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Keys     APIKeys
	Ai       AIConfig
	Storage  StorageConfig
	History  HistoryConfig
	Seeder   SeederConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	LLMLogFilePath     string
	ActivityLogPath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JwtSecret     string
	TokenTTLHours int
}

type APIKeys struct {
	OpenAI       string
	GoogleGemini string
}

// StrategyConfig selects the provider behind one LLM-backed strategy.
type StrategyConfig struct {
	Provider string // "openai", "gemini" or "ollama"
	Model    string
}

type AIConfig struct {
	OllamaBaseURL string
	Concise       StrategyConfig
	Detailed      StrategyConfig
}

type StorageConfig struct {
	UploadDir        string
	MaxUploadBytes   int
	AllowedMimeTypes []string
}

type HistoryConfig struct {
	Backend    string // "memory" or "redis"
	TTLMinutes int
}

type SeederConfig struct {
	Enabled         bool
	IntervalSeconds int
	UserIds         []uint
	Topic           string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			LLMLogFilePath:     getEnv("LLM_LOG_FILE_PATH", "logs/llm.log"),
			ActivityLogPath:    getEnv("ACTIVITY_LOG_FILE_PATH", "logs/activity.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret:     getEnv("JWT_SECRET", ""),
			TokenTTLHours: getEnvAsInt("JWT_TTL_HOURS", 24),
		},
		Keys: APIKeys{
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Concise: StrategyConfig{
				Provider: getEnv("CONCISE_LLM_PROVIDER", "openai"),
				Model:    getEnv("CONCISE_LLM_MODEL", "gpt-4o-mini"),
			},
			Detailed: StrategyConfig{
				Provider: getEnv("DETAILED_LLM_PROVIDER", "openai"),
				Model:    getEnv("DETAILED_LLM_MODEL", "gpt-3.5-turbo"),
			},
		},
		Storage: StorageConfig{
			UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
			MaxUploadBytes: getEnvAsInt("UPLOAD_MAX_BYTES", 10*1024*1024),
			AllowedMimeTypes: getEnvAsList("UPLOAD_ALLOWED_TYPES", []string{
				"text/plain",
				"text/csv",
				"application/json",
				"text/markdown",
				"application/pdf",
				"text/html",
			}),
		},
		History: HistoryConfig{
			Backend:    getEnv("HISTORY_BACKEND", "memory"),
			TTLMinutes: getEnvAsInt("HISTORY_TTL_MINUTES", 0),
		},
		Seeder: SeederConfig{
			Enabled:         getEnvAsBool("SEEDER_ENABLED", false),
			IntervalSeconds: getEnvAsInt("SEEDER_INTERVAL_SECONDS", 60),
			UserIds:         getEnvAsUintList("SEEDER_USER_IDS", []uint{1, 2, 3, 4, 5}),
			Topic:           getEnv("SEED_TASK_TOPIC", "SEED_TASK"),
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

func getEnvAsList(key string, fallback []string) []string {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if strValue == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(strValue, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func getEnvAsUintList(key string, fallback []uint) []uint {
	parts := getEnvAsList(key, nil)
	if len(parts) == 0 {
		return fallback
	}
	result := make([]uint, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			log.Printf("Warn: ignoring invalid value %q in %s", part, key)
			continue
		}
		result = append(result, uint(value))
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}
