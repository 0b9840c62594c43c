package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret     string
	SessionSecret string
	Port          string
	Env           string

	SiteURL       string
	CanonicalHost string

	PaymentCurrency       string
	RazorpayKey           string
	RazorpaySecret        string
	RazorpayWebhookSecret string

	DoorDashOrderURL string
	UberEatsOrderURL string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string

	LoyaltyRewardPercent int
	LoyaltyMinPaidOrders int

	MediaRoot string
}

// LoadConfig loads configuration from environment variables. A missing
// .env file is not an error; the environment may be provided by the host.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "rms"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionSecret: getEnv("SESSION_SECRET", "dev-not-for-prod"),
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),

		SiteURL:       getEnv("SITE_URL", "http://localhost:8080"),
		CanonicalHost: os.Getenv("CANONICAL_HOST"),

		PaymentCurrency:       getEnv("PAYMENT_CURRENCY", "INR"),
		RazorpayKey:           os.Getenv("RAZORPAY_KEY"),
		RazorpaySecret:        os.Getenv("RAZORPAY_SECRET"),
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),

		DoorDashOrderURL: os.Getenv("DOORDASH_ORDER_URL"),
		UberEatsOrderURL: os.Getenv("UBEREATS_ORDER_URL"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		EmailFrom:    getEnv("EMAIL_FROM", "orders@example.com"),

		LoyaltyRewardPercent: getEnvInt("LOYALTY_REWARD_PERCENT", 5),
		LoyaltyMinPaidOrders: getEnvInt("LOYALTY_MIN_PAID_ORDERS", 5),

		MediaRoot: getEnv("MEDIA_ROOT", "media"),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}
