package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Airtable AirtableConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Editor   EditorConfig
}

type ServerConfig struct {
	Port         string
	AllowOrigins []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// AirtableConfig is injected into the record gateway at construction;
// nothing reads the API key from module state.
type AirtableConfig struct {
	BaseURL        string
	APIKey         string
	BaseID         string
	RequestTimeout time.Duration
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type RedisConfig struct {
	Addr       string
	CatalogTTL time.Duration
}

type KafkaConfig struct {
	Brokers  []string
	Enabled  bool
	MockMode bool
	Topics   TopicConfig
}

type TopicConfig struct {
	EventSaved   string
	EventDeleted string
}

type EditorConfig struct {
	SaveTimeout      time.Duration
	AutosaveEnabled  bool
	AutosaveDebounce time.Duration
	PublicBaseURL    string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8086"),
			AllowOrigins: []string{getEnv("CORS_ORIGIN", "*")},
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Airtable: AirtableConfig{
			BaseURL:        getEnv("AIRTABLE_BASE_URL", "https://api.airtable.com/v0"),
			APIKey:         getEnv("AIRTABLE_API_KEY", ""),
			BaseID:         getEnv("AIRTABLE_BASE_ID", ""),
			RequestTimeout: getEnvDuration("AIRTABLE_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvDuration("TOKEN_TTL", 12*time.Hour),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", ""),
			CatalogTTL: getEnvDuration("CATALOG_CACHE_TTL", 10*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Enabled:  getEnvBool("KAFKA_ENABLED", false),
			MockMode: getEnvBool("KAFKA_MOCK_MODE", false),
			Topics: TopicConfig{
				EventSaved:   getEnv("KAFKA_TOPIC_EVENT_SAVED", "dashboard.event.saved"),
				EventDeleted: getEnv("KAFKA_TOPIC_EVENT_DELETED", "dashboard.event.deleted"),
			},
		},
		Editor: EditorConfig{
			SaveTimeout:      getEnvDuration("EDITOR_SAVE_TIMEOUT", 15*time.Second),
			AutosaveEnabled:  getEnvBool("EDITOR_AUTOSAVE", false),
			AutosaveDebounce: getEnvDuration("EDITOR_AUTOSAVE_DEBOUNCE", 1200*time.Millisecond),
			PublicBaseURL:    getEnv("PUBLIC_BASE_URL", "https://events.example.com"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
