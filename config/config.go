package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Midtrans   MidtransConfig
	Cloudinary CloudinaryConfig
	Predictor  PredictorConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type MidtransConfig struct {
	BaseURL      string
	ServerKey    string
	IsProduction bool
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// PredictorConfig points at the hemoglobin inference service.
type PredictorConfig struct {
	BaseURL string
	Timeout time.Duration
}

func Load() *Config {
	// .env is optional; deployments may set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         envOr("PORT", "8080"),
			Env:          envOr("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             envOr("DATABASE_DSN", "anemware:anemware@tcp(localhost:3306)/anemware?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  envOr("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: envOr("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "anemware",
		},
		Midtrans: MidtransConfig{
			BaseURL:      envOr("MIDTRANS_BASE_URL", "https://app.sandbox.midtrans.com"),
			ServerKey:    os.Getenv("MIDTRANS_SERVER_KEY"),
			IsProduction: envBool("MIDTRANS_IS_PRODUCTION", false),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Predictor: PredictorConfig{
			BaseURL: os.Getenv("PREDICTOR_BASE_URL"),
			Timeout: 30 * time.Second,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
