package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Upstream modes.
const (
	ModeHTTP   = "http"
	ModeMemory = "memory"
)

// Order cache backends.
const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

type Config struct {
	InstanceID string        `mapstructure:"instance_id"`
	Server     ServerConfig  `mapstructure:"server"`
	API        ServiceConfig `mapstructure:"api"`
	Redis      RedisConfig   `mapstructure:"redis"`
	Kafka      KafkaConfig   `mapstructure:"kafka"`
	Features   FeatureFlags  `mapstructure:"features"`
	Log        LogConfig     `mapstructure:"log"`
	Query      QueryConfig   `mapstructure:"query"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ServiceConfig points at the remote REST API that owns orders, customers
// and products.
type ServiceConfig struct {
	BaseURL string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	APIKey  string        `mapstructure:"key"`
	Mode    string        `mapstructure:"mode"`
}

// RedisConfig configures the order cache. Backend picks Redis or an
// in-process cache; the connection fields only apply to Redis.
type RedisConfig struct {
	Backend  string        `mapstructure:"backend"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	OrdersTopic   string   `mapstructure:"orders_topic"`
	ConsumerGroup string   `mapstructure:"consumer_group"`
}

type FeatureFlags struct {
	EnableListCaching      bool `mapstructure:"enable_list_caching"`
	EnableOrderEvents      bool `mapstructure:"enable_order_events"`
	EnableServerSideSearch bool `mapstructure:"enable_server_side_search"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type QueryConfig struct {
	MaxPageSize int `mapstructure:"max_page_size"`
}

// Load reads configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables (SERVER_PORT, API_URL, REDIS_HOST,
// KAFKA_BROKERS, FEATURES_ENABLE_LIST_CACHING, ...). Environment wins.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID, _ = os.Hostname()
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("instance_id", "")

	v.SetDefault("server.port", 8082)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("api.url", "http://localhost:3000")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.key", "")
	v.SetDefault("api.mode", ModeHTTP)

	v.SetDefault("redis.backend", CacheBackendRedis)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 30*time.Second)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.orders_topic", "orders.admin.events")
	v.SetDefault("kafka.consumer_group", "orders-admin")

	v.SetDefault("features.enable_list_caching", false)
	v.SetDefault("features.enable_order_events", false)
	v.SetDefault("features.enable_server_side_search", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("query.max_page_size", 100)
}
