package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  host: 0.0.0.0
  port: 8081
  env: production
database:
  url: postgres://localhost/artwala
  auto_migrate: true
jwt:
  secret: file-secret
redis:
  addr: localhost:6379
kafka:
  enabled: true
  brokers: ["kafka:9092"]
`

// clearEnv изолирует тест от окружения машины
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "DATABASE_AUTO_MIGRATE", "SERVER_HOST", "SERVER_PORT", "SERVER_ENV",
		"JWT_SECRET", "REDIS_ADDR", "REDIS_PASSWORD", "LOCK_TTL_SECONDS",
		"KAFKA_ENABLED", "KAFKA_TOPIC", "KAFKA_BROKERS", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres://localhost/artwala", cfg.Database.DSN)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "commission-events", cfg.Kafka.Topic)
	assert.Equal(t, 10, cfg.Lock.TTLSeconds)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")
	t.Setenv("LOCK_TTL_SECONDS", "30")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30, cfg.Lock.TTLSeconds)
}

func TestLoad_EnvOnlyWhenFileMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://env/artwala")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/artwala", cfg.Database.DSN)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_MissingRequiredValues(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "server:\n  port: 8080\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.url")
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestLoad_KafkaEnabledRequiresBrokers(t *testing.T) {
	clearEnv(t)
	yml := "database:\n  url: x\njwt:\n  secret: y\nkafka:\n  enabled: true\n"
	_, err := Load(writeConfig(t, yml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka.brokers")
}
