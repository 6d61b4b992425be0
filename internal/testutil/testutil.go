// Package testutil builds servers and database doubles for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/student-results/internal/config"
	"github.com/deppfellow/student-results/internal/database"
	"github.com/deppfellow/student-results/internal/grading"
	"github.com/deppfellow/student-results/internal/server"
)

// SessionSecret signs flash cookies in tests.
const SessionSecret = "test-session-secret-0123456789"

// NewTestConfig returns a config equivalent to the loaded defaults.
func NewTestConfig() *config.Config {
	obs := config.DefaultObservabilityConfig()
	obs.ServiceName = config.ServiceName
	obs.Environment = "test"
	obs.Logging.SlowQueryThreshold = time.Second

	return &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "8080",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: config.DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Name:            "student_results_test",
			SSLMode:         "disable",
			MaxConns:        4,
			MinConns:        0,
			ConnMaxLifetime: 300,
			ConnMaxIdleTime: 60,
		},
		Auth: config.AuthConfig{SessionSecret: SessionSecret},
		Grading: config.GradingConfig{
			Bands:    grading.DefaultBands,
			Fallback: grading.DefaultFallback,
		},
		Observability: obs,
	}
}

// NewMockDB wraps a pgxmock pool in a Database. Pings are expectations
// like any query. Unmet expectations fail the test at cleanup.
func NewMockDB(t *testing.T) (*database.Database, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	logger := zerolog.Nop()
	return database.NewWithPool(mock, &logger), mock
}

// NewMockServer returns a Server backed by a pgxmock pool and the
// default grade scale. No New Relic application is attached.
func NewMockServer(t *testing.T) (*server.Server, pgxmock.PgxPoolIface) {
	t.Helper()

	db, mock := NewMockDB(t)
	cfg := NewTestConfig()

	scale, err := cfg.Grading.Scale()
	require.NoError(t, err)

	logger := zerolog.Nop()
	return &server.Server{
		Config: cfg,
		Logger: &logger,
		DB:     db,
		Scale:  scale,
	}, mock
}
