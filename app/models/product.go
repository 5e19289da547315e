package models

import "gorm.io/gorm"

// Product publication statuses.
const (
	ProductStatusDraft     = "draft"
	ProductStatusReview    = "review"
	ProductStatusPublished = "published"
	ProductStatusRejected  = "rejected"
)

// ProductStatuses is the enumerated set accepted by change-status.
var ProductStatuses = []string{
	ProductStatusDraft,
	ProductStatusReview,
	ProductStatusPublished,
	ProductStatusRejected,
}

// ValidProductStatus reports whether s is an enumerated product status.
func ValidProductStatus(s string) bool {
	for _, v := range ProductStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Category groups products. Deleting a category detaches its products
// (CategoryID set to null), it never cascades.
type Category struct {
	gorm.Model
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// Product is a catalog item owned by the user who created it.
type Product struct {
	gorm.Model
	Name        string    `gorm:"size:200;not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"size:255" json:"image"`
	CategoryID  *uint     `gorm:"index" json:"category_id"`
	Category    *Category `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Brand       string    `gorm:"size:100" json:"brand"`
	Weight      *float64  `json:"weight"`
	Dimensions  string    `gorm:"size:50" json:"dimensions"`
	Material    string    `gorm:"size:100" json:"material"`
	InStock     bool      `gorm:"not null;default:true" json:"in_stock"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	Price       float64   `gorm:"not null;default:0" json:"price"`
	OldPrice    *float64  `json:"old_price"`

	PublicationStatus string `gorm:"size:20;not null;default:draft;index" json:"publication_status"`
	IsPublished       bool   `gorm:"not null;default:false;index" json:"is_published"`

	// OwnerID is nullable for legacy rows created before ownership existed.
	OwnerID *uint `gorm:"index" json:"owner_id"`
}

// BeforeSave keeps IsPublished derived from PublicationStatus on every
// persist, so direct field edits can never desynchronise the pair.
func (p *Product) BeforeSave(*gorm.DB) error {
	p.IsPublished = p.PublicationStatus == ProductStatusPublished
	return nil
}

// OwnedBy reports whether userID is the product's owner.
func (p *Product) OwnedBy(userID uint) bool {
	return p.OwnerID != nil && *p.OwnerID == userID
}
