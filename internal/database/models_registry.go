package database

import "inkwell/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Parents come before children so AutoMigrate creates foreign keys in order.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Category{},
		&models.Like{},
		&models.Follow{},
	}
}
