package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Harish-hex/SIH-HealthTwin/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "health.db"),
	}

	db, closeDB, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer closeDB()

	require.NoError(t, Migrate(db))

	for _, table := range []string{
		"water_quality_readings", "predictions", "alerts", "health_workers", "vitals_records",
	} {
		assert.True(t, db.Migrator().HasTable(table), "table %s should exist", table)
	}

	// Migrating twice is a no-op.
	require.NoError(t, Migrate(db))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, _, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestOpenPostgresBadDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver: "postgres", Host: "localhost", Port: -1,
		User: "u", Password: "p", Name: "n", SSLMode: "disable",
	}
	_, _, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}
