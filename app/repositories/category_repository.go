package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/zmaxim/skystore/app/models"
	"github.com/zmaxim/skystore/pkg/apperr"
)

// CategoryRepository handles database operations for Category.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// All returns every category ordered by name.
func (r *CategoryRepository) All() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Order("name asc").Find(&categories).Error
	return categories, err
}

// FindByID looks up a category by primary key.
func (r *CategoryRepository) FindByID(id uint) (models.Category, error) {
	var c models.Category
	err := r.db.First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c, apperr.NotFoundf("category %d", id)
	}
	return c, err
}

// Create persists a new category.
func (r *CategoryRepository) Create(c *models.Category) error {
	return r.db.Create(c).Error
}

// Delete removes the category and detaches its products in one
// transaction. Products survive with a null category.
func (r *CategoryRepository) Delete(c *models.Category) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).
			Where("category_id = ?", c.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(c).Error
	})
}
