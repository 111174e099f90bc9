package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	Logger  LoggerConfig
	Backend BackendConfig
	Health  HealthConfig
	Search  SearchConfig
	SQLite  SQLiteConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Elastic ElasticsearchConfig
	Printer PrinterConfig
	CORS    CORSConfig
}

type ServerConfig struct {
	AppEnv   string
	GRPCPort string
	HTTPPort string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type BackendConfig struct {
	BaseURL  string
	Timeout  time.Duration
	Username string
	Password string
}

type HealthConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

type SearchConfig struct {
	Debounce time.Duration
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
	GroupID string
}

type ElasticsearchConfig struct {
	Enabled   bool
	Addresses []string
	Username  string
	Password  string
}

type PrinterConfig struct {
	Default      string
	StoreName    string
	StoreAddress string
	StorePhone   string
}

type CORSConfig struct {
	AllowOrigins []string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:   getEnv("APP_ENV", "dev"),
			GRPCPort: getEnv("GRPC_PORT", ":8090"),
			HTTPPort: getEnv("PRINT_HTTP_PORT", ":8091"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Backend: BackendConfig{
			BaseURL:  getEnv("BACKEND_URL", "http://localhost:8000/api"),
			Timeout:  getEnvDuration("BACKEND_TIMEOUT", 0),
			Username: getEnv("POS_USERNAME", ""),
			Password: getEnv("POS_PASSWORD", ""),
		},
		Health: HealthConfig{
			Interval: getEnvDuration("HEALTH_INTERVAL", 30*time.Second),
			Timeout:  getEnvDuration("HEALTH_TIMEOUT", 5*time.Second),
		},
		Search: SearchConfig{
			Debounce: getEnvDuration("SEARCH_DEBOUNCE", 500*time.Millisecond),
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "omnipos-pos.db"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Brokers: getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_TOPIC_CATALOG", "catalog.events"),
			GroupID: getEnv("KAFKA_GROUP_POS", "pos-terminal"),
		},
		Elastic: ElasticsearchConfig{
			Enabled:   getEnvBool("ELASTICSEARCH_ENABLED", false),
			Addresses: getEnvSlice("ELASTICSEARCH_ADDRESSES", []string{"http://localhost:9200"}),
			Username:  getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:  getEnv("ELASTICSEARCH_PASSWORD", ""),
		},
		Printer: PrinterConfig{
			Default:      getEnv("PRINTER_TYPE", "thermal_80mm"),
			StoreName:    getEnv("STORE_NAME", "Beverage Store"),
			StoreAddress: getEnv("STORE_ADDRESS", ""),
			StorePhone:   getEnv("STORE_PHONE", ""),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000", "http://localhost:3001", "http://localhost:3002"}),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("30s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if i, err := strconv.Atoi(value); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
