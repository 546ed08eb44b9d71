package config

import (
	"os"
)

type Config struct {
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	RedisHost       string
	RedisPort       string
	SessionSecret   string
	GinMode         string
	BlobDir         string
	BlobBaseURL     string
	EmailWebhookURL string
	SMSWebhookURL   string
}

func Load() *Config {
	return &Config{
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "3306"),
		DBUser:          getEnv("DB_USER", "waveshare"),
		DBPassword:      getEnv("DB_PASSWORD", "waveshare"),
		DBName:          getEnv("DB_NAME", "waveshare"),
		RedisHost:       getEnv("REDIS_HOST", "localhost"),
		RedisPort:       getEnv("REDIS_PORT", "6379"),
		SessionSecret:   getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		BlobDir:         getEnv("BLOB_DIR", "./data/blobs"),
		BlobBaseURL:     getEnv("BLOB_BASE_URL", "http://localhost:8080/files"),
		EmailWebhookURL: getEnv("EMAIL_WEBHOOK_URL", ""),
		SMSWebhookURL:   getEnv("SMS_WEBHOOK_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
