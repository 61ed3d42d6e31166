package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env                   string
	MongoURI              string
	MongoDB               string
	ServerAddr            string
	FrontendOrigin        string
	RateLimitReservations int
	RateLimitContact      int
	RateLimitWindowSec    int
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	CacheTTLSeconds       int
	AdminAPIKey           string
	AdminSetupKey         string
	JWTSecret             string
	AccessTTLMinutes      int
	RefreshTTLMinutes     int
	CookieSecure          bool
	BrevoAPIKey           string
	BrevoSenderEmail      string
	BrevoSenderName       string
	BrevoSandbox          bool
	Timezone              *time.Location
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	loc, err := time.LoadLocation(getEnv("TZ", "UTC"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		MongoURI:              getEnv("MONGO_URI", "mongodb://localhost:27017/aperture"),
		MongoDB:               getEnv("MONGO_DB", "aperture"),
		ServerAddr:            getEnv("SERVER_ADDR", ":8080"),
		FrontendOrigin:        getEnv("FRONTEND_ORIGIN", "http://localhost:4200"),
		RateLimitReservations: getEnvInt("RATE_LIMIT_RESERVATIONS", 10),
		RateLimitContact:      getEnvInt("RATE_LIMIT_CONTACT", 5),
		RateLimitWindowSec:    getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),
		RedisAddr:             getEnv("REDIS_ADDR", ""),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		CacheTTLSeconds:       getEnvInt("CACHE_TTL_SECONDS", 60),
		AdminAPIKey:           getEnv("ADMIN_API_KEY", ""),
		AdminSetupKey:         getEnv("ADMIN_SETUP_KEY", ""),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		AccessTTLMinutes:      getEnvInt("ACCESS_TTL_MINUTES", 15),
		RefreshTTLMinutes:     getEnvInt("REFRESH_TTL_MINUTES", 43200),
		CookieSecure:          getEnv("COOKIE_SECURE", "false") == "true",
		BrevoAPIKey:           getEnv("BREVO_API_KEY", ""),
		BrevoSenderEmail:      getEnv("BREVO_SENDER_EMAIL", ""),
		BrevoSenderName:       getEnv("BREVO_SENDER_NAME", ""),
		BrevoSandbox:          getEnv("BREVO_SANDBOX", "false") == "true",
		Timezone:              loc,
	}

	return cfg, nil
}
