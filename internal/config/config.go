package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	Env         string // development | production

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	CORSOrigins string

	RateLimitWindow time.Duration
	RateLimitMax    int

	MaxFileSize int64 // byte
	UploadPath  string
}

func Load() *Config {
	// .env sadece varsa yüklenir, production ortamında sistem env'leri kullanılır
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("[WARN] .env dosyası yüklenemedi:", err)
		}
	}

	cfg := &Config{
		HTTPPort:        getEnv("PORT", "8080"),
		DatabaseDSN:     getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=mobilya port=5432 sslmode=disable"),
		Env:             getEnv("APP_ENV", "development"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		AccessTokenTTL:  getDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		RefreshTokenTTL: getDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		CORSOrigins:     getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		RateLimitWindow: time.Duration(getInt("RATE_LIMIT_WINDOW_MS", 60000)) * time.Millisecond,
		RateLimitMax:    getInt("RATE_LIMIT_MAX_REQUESTS", 100),
		MaxFileSize:     int64(getInt("MAX_FILE_SIZE", 5*1024*1024)),
		UploadPath:      getEnv("UPLOAD_PATH", "./uploads"),
	}

	// Token işlemleri imza anahtarı olmadan çalışamaz
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment değişkeni tanımlanmamış!")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET en az 32 karakter olmalıdır!")
	}
	if cfg.Env == "production" && cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS varsayılan değerde, production için kendi domain'ini tanımla.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] %s sayı değil (%q), varsayılan kullanılıyor: %d", key, v, def)
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[WARN] %s süre olarak çözümlenemedi (%q), varsayılan kullanılıyor: %s", key, v, def)
		return def
	}
	return d
}
