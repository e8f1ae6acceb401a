package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  int
	APIPrefix   string
	CORSOrigins []string
	LogLevel    string

	DBDriver    string
	DatabaseURL string
	DBOpTimeout time.Duration

	JWTSecret     []byte
	ResetTokenTTL time.Duration
	BcryptCost    int

	ResetTokenInResponse bool

	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads .env from the working directory (if present) and then the
// process environment. It is called once at startup.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v. Using system environment variables", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "staff_records"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 5000),
		APIPrefix:   EnvDefault("API_PREFIX", "/api"),
		CORSOrigins: CSV(EnvDefault("CORS_ORIGINS", "*")),
		LogLevel:    os.Getenv("LOG_LEVEL"),

		DBDriver:    EnvDefault("DB_DRIVER", "postgres"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBOpTimeout: EnvDurationDefault("DB_OP_TIMEOUT", 5*time.Second),

		JWTSecret:     []byte(os.Getenv("JWT_SECRET")),
		ResetTokenTTL: EnvDurationDefault("RESET_TOKEN_TTL", 10*time.Minute),
		BcryptCost:    EnvIntDefault("BCRYPT_COST", 10),

		ResetTokenInResponse: EnvBoolDefault("RESET_TOKEN_IN_RESPONSE", true),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "staff_events"),
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
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
