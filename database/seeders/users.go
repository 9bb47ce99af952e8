package seeders

import (
	"gorm.io/gorm"

	"github.com/nairobitech/duka/app/models"
	"github.com/nairobitech/duka/config"
	"github.com/nairobitech/duka/pkg/auth"
)

func init() {
	Register("admin_user", SeedAdminUser)
}

// SeedAdminUser creates the back-office account if it does not exist.
// Email and password come from ADMIN_EMAIL / ADMIN_PASSWORD.
func SeedAdminUser(db *gorm.DB) error {
	email := config.Get("ADMIN_EMAIL", "admin@duka.africa")

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(config.Get("ADMIN_PASSWORD", "changeme"))
	if err != nil {
		return err
	}

	admin := models.User{
		Email:     email,
		Password:  hash,
		FirstName: "Admin",
		LastName:  "Duka",
		Role:      "admin",
	}
	return db.Create(&admin).Error
}
