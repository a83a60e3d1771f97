// Package testutil provides a migrated in-memory database for tests.
package testutil

import (
	"testing"

	"github.com/franciscosanchezn/thunder-road-api/internal/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB opens a fresh in-memory SQLite database with the full schema and
// seed rows. Each call gets its own database; it is closed when t finishes.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.InitDatabase(database.DatabaseConfig{
		Driver:     "sqlite",
		Path:       "file::memory:",
		MaxRetries: 1,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
