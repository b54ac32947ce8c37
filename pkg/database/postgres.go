package database

import (
	"fmt"
	"log"
	"time"

	"cavea/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func Connect(config Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connected successfully")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Colour{},
		&models.Region{},
		&models.WineDomain{},
		&models.Appellation{},
		&models.GrapeVariety{},
		&models.Vintage{},
		&models.Bottle{},
		&models.CellarItem{},
		&models.Comment{},
		&models.AccessToken{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	if err := SeedColours(db); err != nil {
		return fmt.Errorf("failed to seed colours: %w", err)
	}

	log.Println("Database migration completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_cellar_items_user_created ON cellar_items(user_id, created_at DESC)").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_access_tokens_last_used ON access_tokens(last_used_at)").Error; err != nil {
		return err
	}
	return nil
}

// SeedColours inserts the fixed wine colour vocabulary. Colours are the only
// reference table not populated on demand through find-or-create.
func SeedColours(db *gorm.DB) error {
	for _, name := range []string{"red", "white", "rosé", "sparkling"} {
		colour := models.Colour{Name: name}
		if err := db.Where(models.Colour{Name: name}).FirstOrCreate(&colour).Error; err != nil {
			return err
		}
	}
	return nil
}
