package models

import "gorm.io/gorm"

// Contact is the storefront contact card. There is normally a single seeded
// record; the HTTP surface only reads it.
type Contact struct {
	gorm.Model
	Address  string `gorm:"size:255;not null" json:"address"`
	Phone    string `gorm:"size:30" json:"phone"`
	Email    string `gorm:"size:255" json:"email"`
	Schedule string `gorm:"size:255" json:"schedule"`
	MapCode  string `gorm:"type:text" json:"map_code"`
}
