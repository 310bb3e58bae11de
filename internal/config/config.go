package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBDSN       string
	MediaDir    string
	LogFile     string
	JWTSecret   string
	RateURL     string
	RateRefresh time.Duration
}

func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:      getenv("PORT", "8080"),
		DBDSN:     getenv("DB_DSN", "tiendita.db"), // sqlite file in project root
		MediaDir:  getenv("MEDIA_DIR", "./web/media"),
		LogFile:   getenv("LOG_FILE", "./tiendita.log"),
		JWTSecret: getenv("JWT_SECRET", "dev-only-secret-change-me"),
		RateURL:   getenv("RATE_URL", "https://dolarapi.com/v1/dolares/blue"),
	}
	refresh := getenv("RATE_REFRESH", "10m")
	d, err := time.ParseDuration(refresh)
	if err != nil || d <= 0 {
		log.Printf("[config] invalid RATE_REFRESH=%q, using 10m", refresh)
		d = 10 * time.Minute
	}
	cfg.RateRefresh = d

	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s RATE_REFRESH=%s",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.RateRefresh)
	return cfg
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
