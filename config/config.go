package config

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	Kafka       KafkaConfig       `yaml:"kafka"`
	Redis       RedisConfig       `yaml:"redis"`
	Routing     RoutingConfig     `yaml:"routing"`
	DeliveryBox DeliveryBoxConfig `yaml:"deliverybox"`
}

type KafkaConfig struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	OrderEventsTopicName   string `yaml:"order_events_topic_name"`
	DriverUpdatesTopicName string `yaml:"driver_updates_topic_name"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type RoutingConfig struct {
	// Empty BaseURL switches the estimator to the offline haversine provider.
	BaseURL            string `yaml:"base_url"`
	Profile            string `yaml:"profile"`
	TimeoutSeconds     int    `yaml:"timeout_seconds"`
	MaxAttempts        int    `yaml:"max_attempts"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
}

type DeliveryBoxConfig struct {
	HTTPAddr           string `yaml:"http_addr"`
	KafkaConsumerGroup string `yaml:"kafka_consumer_group"`
	ETACacheTTLSeconds int    `yaml:"eta_cache_ttl_seconds"`
	JWTSecret          string `yaml:"jwt_secret"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	if config.DeliveryBox.JWTSecret == "" {
		return nil, fmt.Errorf("deliverybox.jwt_secret is required")
	}

	return &config, nil
}

func (c KafkaConfig) Enabled() bool { return c.Host != "" }

func (c KafkaConfig) Brokers() []string {
	return []string{fmt.Sprintf("%s:%d", c.Host, c.Port)}
}

func (c KafkaConfig) OrderEventsTopic() string {
	if c.OrderEventsTopicName == "" {
		return "order.events"
	}
	return c.OrderEventsTopicName
}

func (c KafkaConfig) DriverUpdatesTopic() string {
	if c.DriverUpdatesTopicName == "" {
		return "driver.updates"
	}
	return c.DriverUpdatesTopicName
}

func (c RedisConfig) Enabled() bool { return c.Host != "" }

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c RoutingConfig) ProfileOrDefault() string {
	if c.Profile == "" {
		return "driving"
	}
	return c.Profile
}

func (c RoutingConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Attempts defaults to one bounded retry.
func (c RoutingConfig) Attempts() int {
	if c.MaxAttempts <= 0 {
		return 2
	}
	return c.MaxAttempts
}

func (c RoutingConfig) RateLimit() int64 {
	if c.RateLimitPerMinute <= 0 {
		return 60
	}
	return int64(c.RateLimitPerMinute)
}

func (c DeliveryBoxConfig) Addr() string {
	if c.HTTPAddr == "" {
		return ":8080"
	}
	return c.HTTPAddr
}

func (c DeliveryBoxConfig) ConsumerGroup() string {
	if c.KafkaConsumerGroup == "" {
		return "deliverybox-api"
	}
	return c.KafkaConsumerGroup
}

func (c DeliveryBoxConfig) ETACacheTTL() time.Duration {
	if c.ETACacheTTLSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.ETACacheTTLSeconds) * time.Second
}
