package database_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/database"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/testhelpers"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := database.Open(config.Database{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	for _, model := range []interface{}{&models.Account{}, &models.UserProfile{}, &models.Recipe{}} {
		assert.True(t, db.Migrator().HasTable(model))
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := database.Open(config.Database{Driver: "oracle"}, zap.NewNop())
	assert.Error(t, err)
}

func TestPostgresMigrations(t *testing.T) {
	url := testhelpers.SetupPostgres(t)

	db, err := sql.Open("postgres", url)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, database.RunMigrations(db))
	version, err := database.MigrationVersion(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	// re-running is a no-op
	require.NoError(t, database.RunMigrations(db))

	require.NoError(t, database.RollbackMigration(db))
	version, err = database.MigrationVersion(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	var exists bool
	require.NoError(t, db.QueryRow(`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'recipes')`).Scan(&exists))
	assert.False(t, exists)
}
