package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-filter-repository-go/example/users/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "userquery.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func Test_Load_UsesDefaults(t *testing.T) {
	// act
	cfg, err := config.Load("")

	// assert
	require.NoError(t, err)
	assert.Equal(t, config.AdapterPGX, cfg.Adapter)
	assert.Equal(t, int32(8), cfg.Postgres.MaxConns)
	assert.Equal(t, int32(2), cfg.Postgres.MinConns)
	assert.Equal(t, time.Hour, cfg.Postgres.MaxConnLifetime)
	assert.Equal(t, 5*time.Minute, cfg.Postgres.MaxConnIdleTime)
	assert.Empty(t, cfg.Postgres.ReplicaDSN)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func Test_Load_FileOverridesDefaults_AndEnvOverridesFile(t *testing.T) {
	// arrange
	path := writeConfigFile(t, `
adapter: sqlx
log_level: debug
postgres:
  dsn: postgres://file@db:5432/users
  max_conns: 20
  max_conn_idle_time: 30s
`)
	t.Setenv("USERQUERY_ADAPTER", "sql")
	t.Setenv("USERQUERY_POSTGRES_MAX_CONNS", "32")
	t.Setenv("USERQUERY_POSTGRES_REPLICA_DSN", "postgres://replica@db:5432/users")

	// act
	cfg, err := config.Load(path)

	// assert
	require.NoError(t, err)
	assert.Equal(t, config.AdapterSQL, cfg.Adapter)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "postgres://file@db:5432/users", cfg.Postgres.DSN)
	assert.Equal(t, "postgres://replica@db:5432/users", cfg.Postgres.ReplicaDSN)
	assert.Equal(t, int32(32), cfg.Postgres.MaxConns)
	assert.Equal(t, 30*time.Second, cfg.Postgres.MaxConnIdleTime)
}

func Test_Load_ShouldFail_WithInvalidSettings(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		expectedErr error
	}{
		{name: "unsupported_adapter", env: map[string]string{"USERQUERY_ADAPTER": "mysql"}, expectedErr: config.ErrUnsupportedAdapter},
		{name: "invalid_log_level", env: map[string]string{"USERQUERY_LOG_LEVEL": "chatty"}, expectedErr: config.ErrInvalidLogLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			for key, value := range tc.env {
				t.Setenv(key, value)
			}

			// act
			_, err := config.Load("")

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_Load_ShouldFail_WithMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.ErrorIs(t, err, config.ErrLoadingConfig)
}

func Test_Postgres_PGXPoolConfig_AppliesPoolSettings(t *testing.T) {
	// arrange
	cfg, err := config.Load("")
	require.NoError(t, err)

	// act
	poolConfig, err := cfg.Postgres.PGXPoolConfig()

	// assert
	require.NoError(t, err)
	assert.Equal(t, int32(8), poolConfig.MaxConns)
	assert.Equal(t, int32(2), poolConfig.MinConns)
	assert.Equal(t, time.Hour, poolConfig.MaxConnLifetime)
	assert.Equal(t, "users", poolConfig.ConnConfig.Database)
}

func Test_Postgres_NewSQLDB_AndNewSQLXDB_DoNotConnect(t *testing.T) {
	// arrange
	cfg, err := config.Load("")
	require.NoError(t, err)

	// act
	sqlDB, sqlErr := cfg.Postgres.NewSQLDB()
	sqlxDB, sqlxErr := cfg.Postgres.NewSQLXDB()

	// assert
	require.NoError(t, sqlErr)
	require.NoError(t, sqlxErr)
	assert.Equal(t, 8, sqlDB.Stats().MaxOpenConnections)
	assert.Equal(t, "postgres", sqlxDB.DriverName())
	assert.NoError(t, sqlDB.Close())
	assert.NoError(t, sqlxDB.Close())
}

func Test_Postgres_NewPGXReplicaPool_IsNil_WithoutReplica(t *testing.T) {
	// arrange
	cfg, err := config.Load("")
	require.NoError(t, err)

	// act
	replica, err := cfg.Postgres.NewPGXReplicaPool(t.Context())

	// assert
	assert.NoError(t, err)
	assert.Nil(t, replica)
}
