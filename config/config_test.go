package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadConfig(t *testing.T) {
	p := writeConfig(t, `
kafka:
  host: "localhost"
  port: 9092
  order_events_topic_name: "orders.v1"
redis:
  host: "localhost"
  port: 6379
routing:
  base_url: "http://router.project-osrm.org"
  timeout_seconds: 3
deliverybox:
  http_addr: ":9090"
  jwt_secret: "s3cret"
`)

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	require.Equal(t, "orders.v1", cfg.Kafka.OrderEventsTopic())
	require.Equal(t, "driver.updates", cfg.Kafka.DriverUpdatesTopic())
	require.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers())
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
	require.Equal(t, "http://router.project-osrm.org", cfg.Routing.BaseURL)
	require.Equal(t, 3*time.Second, cfg.Routing.Timeout())
	require.Equal(t, ":9090", cfg.DeliveryBox.Addr())
}

func TestLoadConfig_Defaults(t *testing.T) {
	p := writeConfig(t, `
deliverybox:
  jwt_secret: "s3cret"
`)

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	require.False(t, cfg.Kafka.Enabled())
	require.False(t, cfg.Redis.Enabled())
	require.Equal(t, "driving", cfg.Routing.ProfileOrDefault())
	require.Equal(t, 5*time.Second, cfg.Routing.Timeout())
	require.Equal(t, 2, cfg.Routing.Attempts())
	require.Equal(t, int64(60), cfg.Routing.RateLimit())
	require.Equal(t, ":8080", cfg.DeliveryBox.Addr())
	require.Equal(t, "deliverybox-api", cfg.DeliveryBox.ConsumerGroup())
	require.Equal(t, time.Minute, cfg.DeliveryBox.ETACacheTTL())
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "deliverybox: ["))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "redis:\n  host: localhost\n"))
	require.ErrorContains(t, err, "jwt_secret")
}
