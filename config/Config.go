package config

import "github.com/claimwise/automation/analytics"

type StorageType string

const STORAGE_TYPE_REDIS StorageType = "redis"

type Config struct {
	RedisConfig          RedisStorageConfig
	StorageType          StorageType
	HttpPort             int
	BatchSize            int
	PollIntervalSeconds  int
	ActionTimeoutSeconds int
	WebhookSecret        string
	SignatureHeader      string
	EmailConfig          EmailProviderConfig
	SMSConfig            SMSProviderConfig
	AnalyticsConfig      analytics.DataCollectorConfig
}

type RedisStorageConfig struct {
	Addrs     []string
	Namespace string
}

type EmailProviderConfig struct {
	Endpoint    string
	ApiKey      string
	FromAddress string
}

type SMSProviderConfig struct {
	Endpoint   string
	ApiKey     string
	FromNumber string
}
