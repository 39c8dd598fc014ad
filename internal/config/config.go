package config

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// StorageConfig holds credentials for the S3-compatible bucket that
// stores rendered card assets. Cloudflare R2 is the usual target.
type StorageConfig struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
}

// Enabled reports whether the asset store is configured at all. The
// card endpoints fall back to streaming bytes directly when it is not.
func (s StorageConfig) Enabled() bool {
	return s.AccountID != "" && s.AccessKeyID != "" && s.BucketName != ""
}

type Config struct {
	DB_URL         string
	Port           string
	JWTSecret      string
	EncryptionKey  string
	PublicBaseURL  string
	Environment    string
	AuditQueueSize int
	CorsConfig     cors.Options
	Storage        StorageConfig
}

var Envs = initConfig()

func initConfig() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found")
	}

	return Config{
		DB_URL:         getEnv("DB_URL", ""),
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", "not-so-secret-now-is-it?"),
		EncryptionKey:  getEnv("ENCRYPTION_KEY", "dev-only-encryption-key"),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		Environment:    getEnv("ENV", "development"),
		AuditQueueSize: getEnvAsInt("AUDIT_QUEUE_SIZE", 256),
		CorsConfig:     CorsConfig(),
		Storage: StorageConfig{
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("R2_BUCKET_NAME", ""),
			Region:          getEnv("R2_REGION", "auto"),
		},
	}
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func CorsConfig() cors.Options {
	return cors.Options{
		AllowedOrigins:   []string{getEnv("FRONTEND_ORIGIN", "http://localhost:5173")},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}
