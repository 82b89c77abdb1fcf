package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	AppPort  string
	LogLevel string

	MongoURI      string
	MongoDatabase string
	MySQLDSN      string

	RedisAddress  string
	RedisPassword string
	PriceCacheTTL time.Duration

	KafkaBrokers   []string
	KafkaCartTopic string

	JWTSecret      string
	JWTEmailSecret string
	JWTTTL         time.Duration

	SMTPHost string
	SMTPPort string
	MailFrom string

	ClientOrigin      string
	PaymentSuccessURL string
	PaymentCancelURL  string
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads the process environment, overlaid on a .env file when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppEnv:   getenv("APP_ENV", "development"),
		AppPort:  getenv("APP_PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		MongoURI:      getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getenv("MONGODB_DATABASE", "storefront"),
		MySQLDSN:      getenv("MYSQL_DSN", "user:pass@tcp(mysql:3306)/appdb?parseTime=true"),

		RedisAddress:  getenv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		PriceCacheTTL: getenvDuration("PRICE_CACHE_TTL", 10*time.Minute),

		KafkaBrokers:   getenvList("KAFKA_BROKERS"),
		KafkaCartTopic: getenv("KAFKA_CART_TOPIC", "cart-events"),

		JWTSecret:      getenv("JWT_SECRET", "change-me"),
		JWTEmailSecret: getenv("JWT_EMAIL_SECRET", "change-me-too"),
		JWTTTL:         getenvDuration("JWT_TTL", 2*time.Hour),

		SMTPHost: getenv("SMTP_HOST", "localhost"),
		SMTPPort: getenv("SMTP_PORT", "2025"),
		MailFrom: getenv("MAIL_FROM", "accounts@storefront.local"),

		ClientOrigin:      getenv("CLIENT_ORIGIN", "http://localhost:3000"),
		PaymentSuccessURL: getenv("PAYMENT_SUCCESS_URL", "http://localhost:3000/checkout/success"),
		PaymentCancelURL:  getenv("PAYMENT_CANCEL_URL", "http://localhost:3000/checkout/cancel"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

func getenvList(k string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(k), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
