package config

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string
	Env  string

	MongoURI     string
	DatabaseName string

	JWTSecret       string
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	B2KeyID          string
	B2ApplicationKey string
	B2BucketName     string

	MaxFileSize         int64
	DefaultStorageLimit int64

	MailgunAPIKey string
	MailgunDomain string
	MailgunFrom   string

	UsageReconcileInterval time.Duration

	AllowedOrigins []string
}

// LoadConfig reads the configuration from the environment. Missing required
// variables are fatal.
func LoadConfig() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName: getEnv("DATABASE_NAME", "jotter_db"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTIssuer:       getEnv("JWT_ISSUER", "jotter"),
		AccessTokenTTL:  parseDuration(getEnv("ACCESS_TOKEN_TTL", "15m")),
		RefreshTokenTTL: parseDuration(getEnv("REFRESH_TOKEN_TTL", "168h")),

		B2KeyID:          getEnv("B2_APPLICATION_KEY_ID", ""),
		B2ApplicationKey: getEnv("B2_APPLICATION_KEY", ""),
		B2BucketName:     getEnv("B2_BUCKET_NAME", ""),

		MaxFileSize:         parseInt64(getEnv("MAX_FILE_SIZE", "52428800")),
		DefaultStorageLimit: parseInt64(getEnv("DEFAULT_STORAGE_LIMIT", "16106127360")),

		MailgunAPIKey: getEnv("MAILGUN_API_KEY", ""),
		MailgunDomain: getEnv("MAILGUN_DOMAIN", ""),
		MailgunFrom:   getEnv("MAILGUN_FROM", "noreply@jotter.app"),

		UsageReconcileInterval: parseDuration(getEnv("USAGE_RECONCILE_INTERVAL", "6h")),

		AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
	}

	logConfig(cfg)
	validateConfig(cfg)
	return cfg
}

func logConfig(cfg *Config) {
	log.Println("Configuration loaded:")
	log.Printf("  Port: %s", cfg.Port)
	log.Printf("  Environment: %s", cfg.Env)
	log.Printf("  Database: %s", cfg.DatabaseName)
	log.Printf("  MongoDB URI: %s", maskConnectionString(cfg.MongoURI))
	log.Printf("  JWT Secret: %s", maskSecret(cfg.JWTSecret))
	log.Printf("  Access Token TTL: %v", cfg.AccessTokenTTL)
	log.Printf("  Refresh Token TTL: %v", cfg.RefreshTokenTTL)
	log.Printf("  B2 Key ID: %s", maskSecret(cfg.B2KeyID))
	log.Printf("  B2 Bucket: %s", cfg.B2BucketName)
	log.Printf("  Max File Size: %d bytes", cfg.MaxFileSize)
	log.Printf("  Default Storage Limit: %d bytes", cfg.DefaultStorageLimit)
	log.Printf("  Usage Reconcile Interval: %v", cfg.UsageReconcileInterval)
	log.Printf("  Allowed Origins: %v", cfg.AllowedOrigins)
}

func validateConfig(cfg *Config) {
	var missingVars []string

	required := map[string]string{
		"MONGO_URI":             cfg.MongoURI,
		"JWT_SECRET":            cfg.JWTSecret,
		"B2_APPLICATION_KEY_ID": cfg.B2KeyID,
		"B2_APPLICATION_KEY":    cfg.B2ApplicationKey,
		"B2_BUCKET_NAME":        cfg.B2BucketName,
	}

	for key, value := range required {
		if value == "" {
			missingVars = append(missingVars, key)
		}
	}

	if len(missingVars) > 0 {
		log.Printf("Missing required environment variables: %v", missingVars)
		log.Fatal("Please set all required environment variables")
	}
}

func maskSecret(secret string) string {
	if secret == "" {
		return "[NOT SET]"
	}
	if len(secret) <= 8 {
		return "[HIDDEN]"
	}
	return secret[:4] + "***" + secret[len(secret)-4:]
}

func maskConnectionString(uri string) string {
	if uri == "" {
		return "[NOT SET]"
	}
	if strings.Contains(uri, "@") {
		parts := strings.Split(uri, "@")
		if len(parts) >= 2 {
			return "[CREDENTIALS_HIDDEN]@" + parts[len(parts)-1]
		}
	}
	return uri
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt64(s string) int64 {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		log.Fatalf("Failed to parse int64: %s", s)
	}
	return i
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("Failed to parse duration: %s", s)
	}
	return d
}

func CreateContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func parseStringSlice(s string) []string {
	if s == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	var result []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
