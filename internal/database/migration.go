package database

import (
	"fmt"

	"github.com/sebastianmarines/assetgridapp/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.UserAccount{},
		&models.Category{},
		&models.Transaction{},
		&models.TransactionLine{},
		&models.TransactionIdentifier{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
