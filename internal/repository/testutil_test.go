package repository

import (
	"path/filepath"
	"testing"

	"cavea/internal/models"
	"cavea/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Name:      "Dupont",
		Firstname: "Jean",
		Email:     email,
		Password:  "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func lookupColour(t *testing.T, db *gorm.DB, name string) *models.Colour {
	t.Helper()

	var colour models.Colour
	require.NoError(t, db.Where("name = ?", name).First(&colour).Error)
	return &colour
}
