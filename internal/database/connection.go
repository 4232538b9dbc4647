package database

import (
	"errors"
	"os"

	"github.com/mission-vitale/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func (d *Database) Connect() error {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return errors.New("DATABASE_URL is not set")
	}

	// TranslateError превращает ошибки драйвера в gorm.ErrDuplicatedKey и прочие
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return err
	}

	if err := Migrate(db); err != nil {
		return err
	}

	d.db = db

	return nil
}

// Migrate создает все таблицы
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Mission{},
		&models.Puzzle{},
		&models.GameSession{},
		&models.CollabRoom{},
		&models.CollabMember{},
		&models.PlayerMission{},
	)
}
