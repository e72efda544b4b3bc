package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	// Base URL of the Resume Ranker API every client talks to
	APIBaseURL string
	// Session cookie
	SessionSecret        string
	SessionName          string
	SessionMaxAgeSeconds int
	CookieSecure         bool
	// Logging
	LogDir     string
	LogLevel   string
	LogConsole bool
	// Resume uploads
	MaxUploadMB   int
	UploadTempDir string
	// ClamAV daemon scanning resumes before upload (optional)
	ClamAVAddress        string
	ClamAVTimeoutSeconds int
	// Redis Configuration (optional, shared rate-limit counters)
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitLoginThreshold  int
	RateLimitUploadThreshold int
	// Failed sign-ins per username before a temporary block
	LoginMaxAttempts  int
	LoginBlockMinutes int
}

func LoadConfig() (*Config, error) {
	// Missing .env is fine, the environment wins anyway
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		// Trailing slash would produce //auth/token style paths
		APIBaseURL:           strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000"), "/"),
		SessionSecret:        getEnv("SESSION_SECRET", ""),
		SessionName:          getEnv("SESSION_NAME", "resume_ranker_session"),
		SessionMaxAgeSeconds: getEnvInt("SESSION_MAX_AGE_SECONDS", 86400),
		CookieSecure:         getEnvBool("COOKIE_SECURE", false),
		LogDir:               getEnv("LOG_DIR", "logs"),
		LogLevel:             strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogConsole:           getEnvBool("LOG_CONSOLE", true),
		MaxUploadMB:          getEnvInt("MAX_UPLOAD_MB", 10),
		UploadTempDir:        getEnv("UPLOAD_TEMP_DIR", os.TempDir()),
		ClamAVAddress:        getEnv("CLAMAV_ADDRESS", ""),
		ClamAVTimeoutSeconds: getEnvInt("CLAMAV_TIMEOUT_SECONDS", 30),
		RedisURL:             getEnv("REDIS_URL", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		// Rate limiting defaults
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),  // 1 minute window
		RateLimitLoginThreshold:  getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10), // login/register posts per window
		RateLimitUploadThreshold: getEnvInt("RATE_LIMIT_UPLOAD_THRESHOLD", 10),
		LoginMaxAttempts:         getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginBlockMinutes:        getEnvInt("LOGIN_BLOCK_MINUTES", 15),
	}

	if cfg.SessionSecret == "" {
		log.Println("WARNING: SESSION_SECRET is missing. Using a random secret, sessions will not survive a restart.")
		cfg.SessionSecret = randomSecret()
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// MaxUploadBytes is the resume size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "resume-ranker-insecure-default"
	}
	return hex.EncodeToString(b)
}
