package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	JWTSecret string

	AssistantBaseURL      string
	AssistantAPIKey       string
	AssistantDefaultID    string
	AssistantVariantsFile string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
}

func LoadConfig() Config {
	// Missing .env is fine, the system environment still applies.
	_ = godotenv.Load()

	return Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8000"),

		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", ""),
		DBName:     getEnv("DB_NAME", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		AssistantBaseURL:      getEnv("ASSISTANT_BASE_URL", "https://api.openai.com/v1"),
		AssistantAPIKey:       getEnv("ASSISTANT_API_KEY", ""),
		AssistantDefaultID:    getEnv("ASSISTANT_DEFAULT_ID", ""),
		AssistantVariantsFile: getEnv("ASSISTANT_VARIANTS_FILE", "variants.yaml"),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "mediroom-attachments"),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}
