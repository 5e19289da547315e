package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/zmaxim/skystore/app/models"
	"github.com/zmaxim/skystore/pkg/apperr"
)

// ContactRepository reads the seeded contact record.
type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// First returns the contact record.
func (r *ContactRepository) First() (models.Contact, error) {
	var c models.Contact
	err := r.db.Order("id asc").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c, apperr.NotFoundf("contact record")
	}
	return c, err
}
