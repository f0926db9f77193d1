package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	SNSRegion string
	// PushSendRate caps outbound SNS publishes per second; PushSendBurst is
	// the token-bucket burst, sized so a single match fan-out never waits.
	PushSendRate  float64
	PushSendBurst int

	// StreamPollInterval is how long a shard poller sleeps between empty
	// GetRecords batches.
	StreamPollInterval time.Duration

	// MembershipModel selects how match2vs2 rosters are represented:
	// "roster" (flat participant list) or "teams" (two team lists).
	// A deployment uses exactly one; the evaluator never sniffs fields.
	MembershipModel string
	// Falta1Fanout selects who is notified when a player joins a falta1
	// match: "inclusive" (everyone, matchFull) or "exclusive" (owner and
	// prior participants, matchJoined).
	Falta1Fanout string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string
	Devices       string
	Notifications string
	Reservations  string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			Devices:       getEnv("DYNAMO_TABLE_DEVICES", "devices"),
			Notifications: getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			Reservations:  getEnv("DYNAMO_TABLE_RESERVATIONS", "reservations"),
		},

		SNSRegion:     getEnv("SNS_REGION", "us-east-1"),
		PushSendRate:  getEnvFloat("PUSH_SEND_RATE", 50),
		PushSendBurst: getEnvInt("PUSH_SEND_BURST", 10),

		StreamPollInterval: getEnvDuration("STREAM_POLL_INTERVAL", time.Second),

		MembershipModel: getEnv("MEMBERSHIP_MODEL", "roster"),
		Falta1Fanout:    getEnv("FALTA1_FANOUT", "inclusive"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
