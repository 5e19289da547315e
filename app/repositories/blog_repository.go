package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/zmaxim/skystore/app/models"
	"github.com/zmaxim/skystore/pkg/apperr"
	"github.com/zmaxim/skystore/pkg/orm"
)

// BlogFilter narrows and orders blog post listings.
type BlogFilter struct {
	Scope    string // ScopeAll, ScopePublished, ScopePublishedOrOwn
	AuthorID uint
	Page     int
	PerPage  int
}

// BlogRepository handles database operations for BlogPost.
type BlogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

// FindByID looks up a post by primary key.
func (r *BlogRepository) FindByID(id uint) (models.BlogPost, error) {
	var b models.BlogPost
	err := r.db.First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return b, apperr.NotFoundf("blog post %d", id)
	}
	return b, err
}

// SlugTaken reports whether another post already uses the slug.
func (r *BlogRepository) SlugTaken(slug string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.Model(&models.BlogPost{}).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// List returns one page of posts matching the filter, newest first with
// published posts ordered by publish date.
func (r *BlogRepository) List(f BlogFilter) ([]models.BlogPost, orm.Pagination, error) {
	q := r.db.Model(&models.BlogPost{})

	switch f.Scope {
	case ScopeAll:
	case ScopePublishedOrOwn:
		q = q.Where("is_published = ? OR author_id = ?", true, f.AuthorID)
	default:
		q = q.Where("is_published = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, orm.Pagination{}, err
	}

	var posts []models.BlogPost
	err := q.Order("created_at desc, id desc").
		Scopes(orm.Paginate(f.Page, f.PerPage)).
		Find(&posts).Error

	return posts, orm.NewPagination(f.Page, f.PerPage, total), err
}

// ByAuthor returns one page of the author's own posts, any status.
func (r *BlogRepository) ByAuthor(authorID uint, page, perPage int) ([]models.BlogPost, orm.Pagination, error) {
	q := r.db.Model(&models.BlogPost{}).Where("author_id = ?", authorID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, orm.Pagination{}, err
	}

	var posts []models.BlogPost
	err := q.Order("created_at desc, id desc").
		Scopes(orm.Paginate(page, perPage)).
		Find(&posts).Error

	return posts, orm.NewPagination(page, perPage, total), err
}

// Create persists a new post.
func (r *BlogRepository) Create(b *models.BlogPost) error {
	return r.db.Create(b).Error
}

// Update persists changes to an existing post.
func (r *BlogRepository) Update(b *models.BlogPost) error {
	return r.db.Save(b).Error
}

// Delete soft-deletes the post.
func (r *BlogRepository) Delete(b *models.BlogPost) error {
	return r.db.Delete(b).Error
}

// IncrementViews bumps the post's view counter by one atomically and
// returns the counter value after the bump. The increment happens in SQL
// so concurrent readers never lose a view, which keeps the exact-threshold
// side effect reliable.
func (r *BlogRepository) IncrementViews(id uint) (uint64, error) {
	var after uint64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.BlogPost{}).
			Where("id = ?", id).
			UpdateColumn("views_count", gorm.Expr("views_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFoundf("blog post %d", id)
		}
		var b models.BlogPost
		if err := tx.Select("views_count").First(&b, id).Error; err != nil {
			return err
		}
		after = b.ViewsCount
		return nil
	})
	return after, err
}
