package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Security SecurityConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Referral ReferralConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// KafkaConfig holds Kafka broker and topic configuration
type KafkaConfig struct {
	Brokers            []string
	PaymentEventsTopic string
	ConsumerGroup      string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SecurityConfig holds webhook and signed URL secrets
type SecurityConfig struct {
	WebhookSecret   string
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

// CacheConfig holds cache TTLs for read-heavy endpoints
type CacheConfig struct {
	PortfolioTTL   time.Duration
	EligibilityTTL time.Duration
}

// StorageConfig holds the private attachment store root
type StorageConfig struct {
	Root string
}

// ReferralConfig holds referral bonus settings
type ReferralConfig struct {
	BonusPaise    int64
	MinAccountAge time.Duration
	SweepInterval time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "preipo_sip"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		Kafka: KafkaConfig{
			Brokers:            []string{getEnv("KAFKA_BROKER", "localhost:9092")},
			PaymentEventsTopic: getEnv("KAFKA_PAYMENT_EVENTS_TOPIC", "payment-events"),
			ConsumerGroup:      getEnv("KAFKA_CONSUMER_GROUP", "preipo-sip-backend"),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Security: SecurityConfig{
			WebhookSecret:   getEnv("WEBHOOK_SECRET", "change-this-in-production"),
			SignedURLSecret: getEnv("SIGNED_URL_SECRET", "change-this-in-production"),
			SignedURLTTL:    getEnvAsDuration("SIGNED_URL_TTL", 5*time.Minute),
		},
		Cache: CacheConfig{
			PortfolioTTL:   getEnvAsDuration("CACHE_PORTFOLIO_TTL", 300*time.Second),
			EligibilityTTL: getEnvAsDuration("CACHE_ELIGIBILITY_TTL", 60*time.Second),
		},
		Storage: StorageConfig{
			Root: getEnv("ATTACHMENT_STORAGE_ROOT", "./data/attachments"),
		},
		Referral: ReferralConfig{
			BonusPaise:    getEnvAsInt64("REFERRAL_BONUS_PAISE", 50000),
			MinAccountAge: getEnvAsDuration("REFERRAL_MIN_ACCOUNT_AGE", 7*24*time.Hour),
			SweepInterval: getEnvAsDuration("REFERRAL_SWEEP_INTERVAL", time.Hour),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
