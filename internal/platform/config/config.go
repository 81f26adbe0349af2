package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process level configuration. Empty PostgresDSN selects
// the in-memory stores; empty RedisURL disables the key cache and the
// distributed lock; empty KafkaBrokers disables the audit relay.
type Server struct {
	Addr            string
	PostgresDSN     string
	RedisURL        string
	KafkaBrokers    []string
	AuditTopic      string
	ApprovalURL     string
	GatewayURL      string
	JWTSigningKey   string
	AgentKeyPath    string
	ApprovalTimeout time.Duration
	GatewayTimeout  time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("PAYCHAIN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	auditTopic := os.Getenv("AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "mandate.audit.v1"
	}

	return Server{
		Addr:            addr,
		PostgresDSN:     os.Getenv("POSTGRES_DSN"),
		RedisURL:        os.Getenv("REDIS_URL"),
		KafkaBrokers:    brokers,
		AuditTopic:      auditTopic,
		ApprovalURL:     os.Getenv("APPROVAL_URL"),
		GatewayURL:      os.Getenv("GATEWAY_URL"),
		JWTSigningKey:   jwtSigningKey,
		AgentKeyPath:    os.Getenv("AGENT_KEY_PATH"),
		ApprovalTimeout: durationEnv("APPROVAL_TIMEOUT", 30*time.Second),
		GatewayTimeout:  durationEnv("GATEWAY_TIMEOUT", 60*time.Second),
	}
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
