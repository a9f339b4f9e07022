package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

type Config struct {
	ServiceName string
	LogLevel    string

	ServerPort int

	StoreDriver   string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string

	JWTAccessSecret  []byte
	JWTRefreshSecret []byte
	AccessTTL        time.Duration
	RefreshTTL       time.Duration

	RazorpayKeyID     string
	RazorpayKeySecret []byte
	RazorpayBaseURL   string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "resale-market"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		ServerPort: EnvIntDefault("SERVER_PORT", 3000),

		StoreDriver:   strings.ToLower(EnvDefault("STORE_DRIVER", StoreDriverPostgres)),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: EnvDefault("MONGO_DATABASE", "resale_market"),

		JWTAccessSecret:  []byte(os.Getenv("JWT_SECRET")),
		JWTRefreshSecret: []byte(os.Getenv("JWT_REFRESH_SECRET")),
		AccessTTL:        EnvDurationDefault("ACCESS_TTL", 15*time.Minute),
		RefreshTTL:       EnvDurationDefault("REFRESH_TTL", 7*24*time.Hour),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: []byte(os.Getenv("RAZORPAY_KEY_SECRET")),
		RazorpayBaseURL:   EnvDefault("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1/"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheTTL:      EnvDurationDefault("CACHE_TTL", 5*time.Minute),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
