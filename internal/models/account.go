package models

import "time"

// Account is a money pool. It has no owner column: who may see or modify it
// is decided entirely by its UserAccount grant rows.
type Account struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"size:250"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Users []UserAccount `gorm:"constraint:OnDelete:CASCADE"`
}
