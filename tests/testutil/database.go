package testutil

import (
	"testing"

	"github.com/kendall-kelly/renovation-quotes-api/config"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated in-memory SQLite database, installs it as the
// global DB and closes it when the test ends
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	// Every connection to :memory: is a separate database, so pin the pool to one
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.MigrateDatabase(db), "failed to migrate test database")

	config.SetDB(db)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}
