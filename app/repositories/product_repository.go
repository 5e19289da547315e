package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/zmaxim/skystore/app/models"
	"github.com/zmaxim/skystore/pkg/apperr"
	"github.com/zmaxim/skystore/pkg/orm"
)

// ProductFilter narrows and orders product listings. Visibility is decided
// by the caller and expressed through Scope/OwnerID.
type ProductFilter struct {
	// Scope is one of ScopeAll, ScopePublished, ScopePublishedOrOwn.
	Scope      string
	OwnerID    uint // used by ScopePublishedOrOwn
	CategoryID uint
	Sort       string // "newest" (default) or "name"
	Page       int
	PerPage    int
}

// Listing visibility scopes.
const (
	ScopeAll            = "all"
	ScopePublished      = "published"
	ScopePublishedOrOwn = "published_or_own"
)

// ProductRepository handles database operations for Product and Category.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindByID loads a product with its category preloaded.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var p models.Product
	err := r.db.Preload("Category").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, apperr.NotFoundf("product %d", id)
	}
	return p, err
}

// List returns one page of products matching the filter.
func (r *ProductRepository) List(f ProductFilter) ([]models.Product, orm.Pagination, error) {
	q := r.db.Model(&models.Product{})

	switch f.Scope {
	case ScopeAll:
	case ScopePublishedOrOwn:
		q = q.Where("is_published = ? OR owner_id = ?", true, f.OwnerID)
	default:
		q = q.Where("is_published = ?", true)
	}

	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, orm.Pagination{}, err
	}

	if f.Sort == "name" {
		q = q.Order("name asc")
	} else {
		q = q.Order("created_at desc, id desc")
	}

	var products []models.Product
	err := q.Preload("Category").
		Scopes(orm.Paginate(f.Page, f.PerPage)).
		Find(&products).Error

	return products, orm.NewPagination(f.Page, f.PerPage, total), err
}

// Moderation returns products awaiting or holding publication, newest first.
func (r *ProductRepository) Moderation(page, perPage int) ([]models.Product, orm.Pagination, error) {
	q := r.db.Model(&models.Product{}).
		Where("publication_status IN ?", []string{models.ProductStatusReview, models.ProductStatusPublished})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, orm.Pagination{}, err
	}

	var products []models.Product
	err := q.Order("created_at desc, id desc").
		Preload("Category").
		Scopes(orm.Paginate(page, perPage)).
		Find(&products).Error

	return products, orm.NewPagination(page, perPage, total), err
}

// Latest returns the n most recently created published products.
func (r *ProductRepository) Latest(n int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("is_published = ?", true).
		Order("created_at desc, id desc").
		Limit(n).
		Preload("Category").
		Find(&products).Error
	return products, err
}

// Popular returns n published products by stock movement (lowest stock
// first as a cheap popularity proxy).
func (r *ProductRepository) Popular(n int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("is_published = ? AND in_stock = ?", true, true).
		Order("stock asc, id desc").
		Limit(n).
		Preload("Category").
		Find(&products).Error
	return products, err
}

// Create persists a new product.
func (r *ProductRepository) Create(p *models.Product) error {
	return r.db.Create(p).Error
}

// Update persists changes to an existing product.
func (r *ProductRepository) Update(p *models.Product) error {
	return r.db.Save(p).Error
}

// Delete soft-deletes the product.
func (r *ProductRepository) Delete(p *models.Product) error {
	return r.db.Delete(p).Error
}

// MassUnpublish flips every published product back to draft in a single
// statement and reports how many rows changed.
func (r *ProductRepository) MassUnpublish() (int64, error) {
	res := r.db.Model(&models.Product{}).
		Where("publication_status = ?", models.ProductStatusPublished).
		Updates(map[string]any{
			"publication_status": models.ProductStatusDraft,
			"is_published":       false,
		})
	return res.RowsAffected, res.Error
}
