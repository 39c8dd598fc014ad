package repositories

import (
	"errors"

	"github.com/unicorn-byte/emergency-card/internal/config"
	"github.com/unicorn-byte/emergency-card/internal/logger"
	"github.com/unicorn-byte/emergency-card/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Domain errors surfaced by the stores. Handlers translate these to
// client-facing responses; anything else is an internal failure.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

func ConnectDatabase() {
	dsn := config.Envs.DB_URL
	// TranslateError maps driver unique-violation errors onto
	// gorm.ErrDuplicatedKey, which the stores turn into ErrConflict.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.L.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := Migrate(db); err != nil {
		logger.L.Fatal("Migration failed", zap.Error(err))
	}
	DB = db
	logger.L.Info("Successfully connected to database")
}

// Migrate creates or updates the schema, including the unique indexes the
// stores rely on for conflict detection.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.EmergencyProfile{},
		&models.EmergencyContact{},
		&models.AccessLog{},
	)
}
