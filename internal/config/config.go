package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// APIServerConfig holds configuration specific to the REST API server.
type APIServerConfig struct {
	Host string     `mapstructure:"HOST"`
	Port string     `mapstructure:"PORT"`
	CORS CORSConfig `mapstructure:"CORS"`
}

// CORSConfig holds configuration for CORS.
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"ALLOWED_ORIGINS"`
	AllowedMethods   []string `mapstructure:"ALLOWED_METHODS"`
	AllowedHeaders   []string `mapstructure:"ALLOWED_HEADERS"`
	ExposedHeaders   []string `mapstructure:"EXPOSED_HEADERS"`
	AllowCredentials bool     `mapstructure:"ALLOW_CREDENTIALS"`
	MaxAge           int      `mapstructure:"MAX_AGE"`
}

// NotifierConfig holds configuration for the realtime notifier server.
type NotifierConfig struct {
	Host           string        `mapstructure:"HOST"`
	Port           string        `mapstructure:"PORT"`
	WebSocketPath  string        `mapstructure:"WEBSOCKET_PATH"`
	ReadTimeout    time.Duration `mapstructure:"READ_TIMEOUT"`
	WriteTimeout   time.Duration `mapstructure:"WRITE_TIMEOUT"`
	MaxHeaderBytes int           `mapstructure:"MAX_HEADER_BYTES"`
}

// KafkaConfig holds configuration for Kafka.
type KafkaConfig struct {
	Brokers             []string `mapstructure:"BROKERS"`
	ClientID            string   `mapstructure:"CLIENT_ID"`
	RelationEventsTopic string   `mapstructure:"RELATION_EVENTS_TOPIC"`
	ConsumerGroup       string   `mapstructure:"CONSUMER_GROUP"`
	Protocol            string   `mapstructure:"PROTOCOL"`
}

// DatabaseConfig holds configuration for the database.
type DatabaseConfig struct {
	Type     string `mapstructure:"TYPE"`
	Host     string `mapstructure:"HOST"`
	Port     int    `mapstructure:"PORT"`
	User     string `mapstructure:"USER"`
	Password string `mapstructure:"PASSWORD"`
	DBName   string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"SSL_MODE"`
}

// StorageConfig holds configuration for object storage.
type StorageConfig struct {
	Type             string        `mapstructure:"TYPE"` // "local" for now, interface leaves room for more
	LocalPath        string        `mapstructure:"LOCAL_PATH"`
	BaseURL          string        `mapstructure:"BASE_URL"`
	MaxFileSizeMB    int64         `mapstructure:"MAX_FILE_SIZE_MB"`
	URLSigningSecret string        `mapstructure:"URL_SIGNING_SECRET"`
	SignedURLExpiry  time.Duration `mapstructure:"SIGNED_URL_EXPIRY"`
}

// AuthConfig holds configuration for authentication (JWT).
type AuthConfig struct {
	JWTSecretKey string        `mapstructure:"JWT_SECRET_KEY"`
	JWTExpiry    time.Duration `mapstructure:"JWT_EXPIRY"`
}

// RedisConfig holds configuration for Redis.
type RedisConfig struct {
	Addr     string `mapstructure:"ADDR"`
	Password string `mapstructure:"PASSWORD"`
	DB       int    `mapstructure:"DB"`
}

// RateLimitConfig holds one fixed-window limit.
type RateLimitConfig struct {
	Limit  int           `mapstructure:"LIMIT"`
	Window time.Duration `mapstructure:"WINDOW"`
}

// RateLimitsConfig groups the per-endpoint limits.
type RateLimitsConfig struct {
	FriendRequests RateLimitConfig `mapstructure:"FRIEND_REQUESTS"`
	Proposals      RateLimitConfig `mapstructure:"PROPOSALS"`
}

// WebSocketConfig holds tuning for notifier websocket connections.
type WebSocketConfig struct {
	WriteWaitSeconds    int `mapstructure:"WRITE_WAIT_SECONDS"`
	PongWaitSeconds     int `mapstructure:"PONG_WAIT_SECONDS"`
	PingPeriodSeconds   int `mapstructure:"PING_PERIOD_SECONDS"`
	MaxMessageSizeBytes int `mapstructure:"MAX_MESSAGE_SIZE_BYTES"`
}

// Config holds all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AppName    string           `mapstructure:"APP_NAME"`
	AppVersion string           `mapstructure:"APP_VERSION"`
	LogLevel   string           `mapstructure:"LOG_LEVEL"`
	APIServer  APIServerConfig  `mapstructure:"API_SERVER"`
	Notifier   NotifierConfig   `mapstructure:"NOTIFIER"`
	Kafka      KafkaConfig      `mapstructure:"KAFKA"`
	Database   DatabaseConfig   `mapstructure:"DATABASE"`
	Storage    StorageConfig    `mapstructure:"STORAGE"`
	Auth       AuthConfig       `mapstructure:"AUTH"`
	Redis      RedisConfig      `mapstructure:"REDIS"`
	RateLimits RateLimitsConfig `mapstructure:"RATE_LIMITS"`
	WebSocket  WebSocketConfig  `mapstructure:"WEBSOCKET"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()

	v.SetDefault("APP_NAME", "le-vestiaire")
	v.SetDefault("APP_VERSION", "0.1.0")
	v.SetDefault("LOG_LEVEL", "info")

	// API server defaults
	v.SetDefault("API_SERVER.HOST", "0.0.0.0")
	v.SetDefault("API_SERVER.PORT", "8080")
	v.SetDefault("API_SERVER.CORS.ALLOWED_ORIGINS", []string{"http://localhost:5173"})
	v.SetDefault("API_SERVER.CORS.ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("API_SERVER.CORS.ALLOWED_HEADERS", []string{"Accept", "Authorization", "Content-Type", "If-None-Match"})
	v.SetDefault("API_SERVER.CORS.EXPOSED_HEADERS", []string{"Content-Length", "ETag"})
	v.SetDefault("API_SERVER.CORS.ALLOW_CREDENTIALS", true)
	v.SetDefault("API_SERVER.CORS.MAX_AGE", 300)

	// Notifier defaults
	v.SetDefault("NOTIFIER.HOST", "0.0.0.0")
	v.SetDefault("NOTIFIER.PORT", "8081")
	v.SetDefault("NOTIFIER.WEBSOCKET_PATH", "/ws")
	v.SetDefault("NOTIFIER.READ_TIMEOUT", 30*time.Second)
	v.SetDefault("NOTIFIER.WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("NOTIFIER.MAX_HEADER_BYTES", 1<<20) // 1 MB

	// Kafka defaults
	v.SetDefault("KAFKA.BROKERS", []string{"localhost:9092"})
	v.SetDefault("KAFKA.CLIENT_ID", "vestiaire")
	v.SetDefault("KAFKA.RELATION_EVENTS_TOPIC", "vestiaire-relation-events")
	v.SetDefault("KAFKA.CONSUMER_GROUP", "vestiaire-notifier-group")
	v.SetDefault("KAFKA.PROTOCOL", "plaintext")

	// Database defaults
	v.SetDefault("DATABASE.TYPE", "postgres")
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "password")
	v.SetDefault("DATABASE.DB_NAME", "vestiaire_db")
	v.SetDefault("DATABASE.SSL_MODE", "disable")

	// Storage defaults
	v.SetDefault("STORAGE.TYPE", "local")
	v.SetDefault("STORAGE.LOCAL_PATH", "./uploads")
	v.SetDefault("STORAGE.BASE_URL", "/media")
	v.SetDefault("STORAGE.MAX_FILE_SIZE_MB", 10)
	v.SetDefault("STORAGE.URL_SIGNING_SECRET", "a_signing_secret_that_should_be_changed")
	v.SetDefault("STORAGE.SIGNED_URL_EXPIRY", 15*time.Minute)

	// Auth defaults
	v.SetDefault("AUTH.JWT_SECRET_KEY", "a_very_secret_key_that_should_be_changed")
	v.SetDefault("AUTH.JWT_EXPIRY", 24*time.Hour)

	// Redis defaults
	v.SetDefault("REDIS.ADDR", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)

	// Rate limit defaults
	v.SetDefault("RATE_LIMITS.FRIEND_REQUESTS.LIMIT", 20)
	v.SetDefault("RATE_LIMITS.FRIEND_REQUESTS.WINDOW", time.Hour)
	v.SetDefault("RATE_LIMITS.PROPOSALS.LIMIT", 5)
	v.SetDefault("RATE_LIMITS.PROPOSALS.WINDOW", 24*time.Hour)

	// WebSocket defaults
	v.SetDefault("WEBSOCKET.WRITE_WAIT_SECONDS", 10)
	v.SetDefault("WEBSOCKET.PONG_WAIT_SECONDS", 60)
	v.SetDefault("WEBSOCKET.PING_PERIOD_SECONDS", 54) // (60 * 9) / 10
	v.SetDefault("WEBSOCKET.MAX_MESSAGE_SIZE_BYTES", 512)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()
	// SERVER.PORT becomes SERVER_PORT in the environment
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		// No config file; defaults plus environment are enough.
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}
