package repository

import "gorm.io/gorm"

// Migrate creates or updates the schema for all repository models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&propertyModel{},
		&roomModel{},
		&bookingModel{},
	)
}
