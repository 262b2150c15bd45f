package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Turso         TursoConfig
	Auth          AuthConfig
	Slack         SlackConfig
	Storage       StorageConfig
	Inngest       InngestConfig
	ProjectID     string
	PubSubTopic   string
	TenantID      string
	RequestTTL    time.Duration
	Reconcile     ReconcileConfig
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// AuthConfig describes how bearer tokens issued by the identity provider are verified.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

// Enabled reports whether a bot token and channel were provided.
func (c SlackConfig) Enabled() bool {
	return c.Token != "" && c.ChannelID != ""
}

// StorageConfig points at an S3 compatible bucket (R2, MinIO, S3) for profile photos.
type StorageConfig struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

func (c StorageConfig) Enabled() bool {
	return c.Bucket != "" && c.AccessKeyID != ""
}

type InngestConfig struct {
	AppID      string
	SigningKey string
	EventKey   string
	Dev        bool
}

func (c InngestConfig) Enabled() bool {
	return c.AppID != "" && c.SigningKey != ""
}

type ReconcileConfig struct {
	Interval    time.Duration
	OrphanGrace time.Duration
}
