package seeders

import (
	"errors"

	"gorm.io/gorm"

	"github.com/zmaxim/skystore/app/authz"
	"github.com/zmaxim/skystore/app/models"
	"github.com/zmaxim/skystore/pkg/auth"
)

func init() {
	Register("contact", SeedContact)
	Register("moderators", SeedModerators)
	Register("categories", SeedCategories)
}

// SeedContact inserts the storefront contact card once.
func SeedContact(db *gorm.DB) error {
	var existing models.Contact
	err := db.First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.Create(&models.Contact{
		Address:  "24 Liteyny Ave, Saint Petersburg",
		Phone:    "+7 (812) 123-45-67",
		Email:    "hello@skystore.example",
		Schedule: "Mon-Fri 10:00-19:00, Sat 11:00-17:00",
	}).Error
}

func seedAccount(db *gorm.DB, email, role string, perms []string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("password")
	if err != nil {
		return err
	}

	return db.Create(&models.User{
		Email:       email,
		Password:    hash,
		Role:        role,
		Permissions: perms,
	}).Error
}

// SeedModerators creates the two staff accounts: a product moderator and a
// blog content manager. Default password is "password"; rotate on first
// login in any real deployment.
func SeedModerators(db *gorm.DB) error {
	if err := seedAccount(db, "moderator@skystore.example", "product_moderator", authz.ProductModeratorPerms); err != nil {
		return err
	}
	return seedAccount(db, "content@skystore.example", "content_manager", authz.ContentManagerPerms)
}

// SeedCategories inserts the base catalog categories.
func SeedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []models.Category{
		{Name: "Furniture", Description: "Tables, chairs and storage"},
		{Name: "Lighting", Description: "Lamps and fixtures"},
		{Name: "Decor", Description: "Textiles and accessories"},
	}
	return db.Create(&categories).Error
}
