package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ENV struct {
	AppEnv   string
	AppName  string
	Port     string
	AppURL   string
	LogLevel string

	DBDriver          string
	DBHost            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBPort            string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnectRetries  int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CartTTL       time.Duration

	AppAuthKey string
	AppEncKey  string
	CSRFKey    string

	PaymentProvider     string
	PaymentCurrency     string
	PaymentTimeout      time.Duration
	MidtransServerKey   string
	MidtransClientKey   string
	MidtransProduction  bool
	StripeSecretKey     string
	StripeWebhookSecret string

	EmailHost     string
	EmailPort     int
	EmailUsername string
	EmailPassword string
	EmailFrom     string
}

func (e ENV) IsProduction() bool {
	return e.AppEnv == "production"
}

func LoadEnv() ENV {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	currency := strings.ToUpper(getEnv("PAYMENT_CURRENCY", "INR"))

	return ENV{
		AppEnv:   getEnv("APP_ENV", "development"),
		AppName:  getEnv("APP_NAME", "sho-storefront"),
		Port:     getEnv("APP_PORT", ":8080"),
		AppURL:   getEnv("APP_URL", "http://localhost:8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver:          getEnv("DB_DRIVER", "mysql"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            getEnv("DB_NAME", "sho"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		DBConnectRetries:  getEnvAsInt("DB_CONNECT_RETRIES", 10),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CartTTL:       getEnvAsDuration("CART_TTL", 7*24*time.Hour),

		AppAuthKey: os.Getenv("APP_AUTH_KEY"),
		AppEncKey:  os.Getenv("APP_ENC_KEY"),
		CSRFKey:    os.Getenv("CSRF_KEY"),

		PaymentProvider:     getEnv("PAYMENT_PROVIDER", DefaultPaymentProvider(currency)),
		PaymentCurrency:     currency,
		PaymentTimeout:      getEnvAsDuration("PAYMENT_TIMEOUT", 15*time.Second),
		MidtransServerKey:   os.Getenv("MIDTRANS_SERVER_KEY"),
		MidtransClientKey:   os.Getenv("MIDTRANS_CLIENT_KEY"),
		MidtransProduction:  getEnv("MIDTRANS_ENV", "sandbox") == "production",
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		EmailHost:     os.Getenv("EMAIL_HOST"),
		EmailPort:     getEnvAsInt("EMAIL_PORT", 587),
		EmailUsername: os.Getenv("EMAIL_USERNAME"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:     getEnv("EMAIL_FROM", os.Getenv("EMAIL_USERNAME")),
	}
}

// DefaultPaymentProvider picks midtrans for rupiah, the only currency it
// settles in, and stripe for everything else.
func DefaultPaymentProvider(currency string) string {
	if strings.EqualFold(currency, "IDR") {
		return "midtrans"
	}
	return "stripe"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
