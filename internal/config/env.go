package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL       string
	JWTSecret         string
	JWTSecretPrevious string
	AccessTokenTTLMin int
	MaxFreeChats      int
	SMTPServer        string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
	EmailFrom         string
	FrontendURL       string
	AIAPIKey          string
	GenModel          string
	Port              string
	Development       bool
}

// LoadConfig loads the environment variables and return config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTSecretPrevious: getEnv("JWT_SECRET_PREVIOUS", ""),
		AccessTokenTTLMin: getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24*8), // 8 days
		MaxFreeChats:      getEnvInt("MAX_FREE_CHATS", 10),
		SMTPServer:        getEnv("SMTP_SERVER", ""),
		SMTPPort:          getEnvInt("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
		EmailFrom:         getEnv("EMAIL_FROM", "noreply@astrological-ai.com"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:3000"),
		AIAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GenModel:          getEnv("GEN_MODEL", "gemini-1.5-flash"),
		Port:              getEnv("PORT", "8080"),
		Development:       getEnv("ENV", "development") != "production",
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}
