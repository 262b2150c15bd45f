package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	defaultRequestTTL        = 30 * time.Minute
	defaultReconcileInterval = 5 * time.Minute
	defaultOrphanGrace       = 2 * time.Minute
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: lookupEnv("MIGRATIONS_DIR", "./migrations"),
		Port:          getEnv("PORT"),
		Turso: TursoConfig{
			PrimaryURL: lookupEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  lookupEnv("TURSO_AUTH_TOKEN", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET"),
			Issuer:    lookupEnv("AUTH_JWT_ISSUER", ""),
		},
		Slack: SlackConfig{
			Token:         lookupEnv("SLACK_BOT_TOKEN", ""),
			ChannelID:     lookupEnv("SLACK_CHANNEL_ID", ""),
			SigningSecret: lookupEnv("SLACK_SIGNING_SECRET", ""),
		},
		Storage: StorageConfig{
			Bucket:          lookupEnv("STORAGE_BUCKET", ""),
			Endpoint:        lookupEnv("STORAGE_ENDPOINT", ""),
			Region:          lookupEnv("STORAGE_REGION", "auto"),
			AccessKeyID:     lookupEnv("STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey: lookupEnv("STORAGE_SECRET_ACCESS_KEY", ""),
			PublicBaseURL:   lookupEnv("STORAGE_PUBLIC_BASE_URL", ""),
		},
		Inngest: InngestConfig{
			AppID:      lookupEnv("INNGEST_APP_ID", ""),
			SigningKey: lookupEnv("INNGEST_SIGNING_KEY", ""),
			EventKey:   lookupEnv("INNGEST_EVENT_KEY", ""),
			Dev:        lookupBool("INNGEST_DEV", false),
		},
		ProjectID:   lookupEnv("GCP_PROJECT", ""),
		PubSubTopic: lookupEnv("PUBSUB_TOPIC", "padel-connect-changes"),
		TenantID:    lookupEnv("PLAYTOMIC_TENANT_ID", ""),
		RequestTTL:  lookupDuration("REQUEST_TTL", defaultRequestTTL),
		Reconcile: ReconcileConfig{
			Interval:    lookupDuration("RECONCILE_INTERVAL", defaultReconcileInterval),
			OrphanGrace: lookupDuration("RECONCILE_ORPHAN_GRACE", defaultOrphanGrace),
		},
	}
	return cfg
}

func lookupEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func lookupDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Warn("Invalid duration in environment, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return d
}

func lookupBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn("Invalid boolean in environment, using default", "key", key, "value", raw)
		return fallback
	}
	return b
}
