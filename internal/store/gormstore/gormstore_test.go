package gormstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pageza/recipebook/backend/internal/database"
	"github.com/pageza/recipebook/backend/internal/store"
	"github.com/pageza/recipebook/backend/internal/store/gormstore"
	"github.com/pageza/recipebook/backend/internal/store/storetest"
	"github.com/pageza/recipebook/backend/internal/testhelpers"
)

func TestGormStoreSQLite(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return gormstore.New(testhelpers.SetupTestDatabase(t))
	})
}

func TestGormStorePostgres(t *testing.T) {
	url := testhelpers.SetupPostgres(t)

	db, err := gorm.Open(postgres.Open(url), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	storetest.Run(t, func(t *testing.T) store.Store {
		require.NoError(t, db.Exec("TRUNCATE accounts, users, recipes").Error)
		return gormstore.New(db)
	})
}
