package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Cloudinary CloudinaryConfig
	Stripe     StripeConfig
	Fees       FeeConfig
	Secrets    SecretsConfig
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

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// StripeConfig holds the gateway credentials. GatewayTimeout bounds every
// outbound call so a hung charge or payout lands on the failed path instead
// of blocking the request forever.
type StripeConfig struct {
	SecretKey      string
	WebhookSecret  string
	GatewayTimeout time.Duration
}

// FeeConfig is the platform fee schedule. Rates are basis points so fee math
// stays in integer cents.
type FeeConfig struct {
	PlatformBps        int64 // pay-in platform cut (1500 = 15%)
	WithdrawalBps      int64 // payout processing fee (250 = 2.5%)
	MinWithdrawalCents int64
}

type SecretsConfig struct {
	// AccountDetailsKey encrypts withdrawal account details at rest.
	// Must be 16, 24 or 32 bytes.
	AccountDetailsKey string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         envOr("PORT", "8088"),
			Env:          envOr("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             envOr("DATABASE_DSN", "peachy:peachy@tcp(localhost:3306)/peachy?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  envOr("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: envOr("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "peachy",
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Stripe: StripeConfig{
			SecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
			GatewayTimeout: 30 * time.Second,
		},
		Fees: FeeConfig{
			PlatformBps:        envOrInt("FEE_PLATFORM_BPS", 1500),
			WithdrawalBps:      envOrInt("FEE_WITHDRAWAL_BPS", 250),
			MinWithdrawalCents: envOrInt("MIN_WITHDRAWAL_CENTS", 2000),
		},
		Secrets: SecretsConfig{
			AccountDetailsKey: envOr("ACCOUNT_DETAILS_KEY", "0123456789abcdef0123456789abcdef"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
