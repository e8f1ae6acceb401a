package config

import "log"

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

// MustValid aborts startup on values that parse but cannot be used.
func (c Config) MustValid() {
	MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	MustNonEmptyBytes(c.JWTSecret, "JWT_SECRET")
	if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
		log.Fatalf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if !c.ResetTokenInResponse && len(c.KafkaBrokers) == 0 {
		log.Fatalf("RESET_TOKEN_IN_RESPONSE=false needs KAFKA_BROKERS to deliver reset tokens")
	}
}
