package models

import (
	"time"

	"gorm.io/gorm"
)

// Blog post publication statuses.
const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
	BlogStatusArchived  = "archived"
)

// BlogStatuses is the enumerated set accepted by change-status.
var BlogStatuses = []string{
	BlogStatusDraft,
	BlogStatusPublished,
	BlogStatusArchived,
}

// ValidBlogStatus reports whether s is an enumerated blog status.
func ValidBlogStatus(s string) bool {
	for _, v := range BlogStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// BlogPost is an article with a slug-addressed public URL and a view counter.
type BlogPost struct {
	gorm.Model
	Title   string `gorm:"size:200;not null" json:"title"`
	Slug    string `gorm:"uniqueIndex;size:220;not null" json:"slug"`
	Content string `gorm:"type:text" json:"content"`
	Preview string `gorm:"size:255" json:"preview"`

	PublicationStatus string `gorm:"size:20;not null;default:draft;index" json:"publication_status"`
	IsPublished       bool   `gorm:"not null;default:false;index" json:"is_published"`

	// PublishedAt is stamped on the first transition to published and is
	// never cleared afterwards, so it records the original publish date.
	PublishedAt *time.Time `json:"published_at"`

	ViewsCount uint64 `gorm:"not null;default:0" json:"views_count"`

	AuthorID *uint `gorm:"index" json:"author_id"`
}

// BeforeSave derives IsPublished from PublicationStatus and stamps
// PublishedAt once on the first publish.
func (b *BlogPost) BeforeSave(*gorm.DB) error {
	b.IsPublished = b.PublicationStatus == BlogStatusPublished
	if b.IsPublished && b.PublishedAt == nil {
		now := time.Now()
		b.PublishedAt = &now
	}
	return nil
}

// OwnedBy reports whether userID is the post's author.
func (b *BlogPost) OwnedBy(userID uint) bool {
	return b.AuthorID != nil && *b.AuthorID == userID
}
