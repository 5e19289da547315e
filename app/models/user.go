package models

import "gorm.io/gorm"

// User is the account model. Email is the login identifier; there is no
// separate username.
type User struct {
	gorm.Model
	Email     string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	FirstName string `gorm:"size:100" json:"first_name"`
	LastName  string `gorm:"size:100" json:"last_name"`
	Phone     string `gorm:"size:20" json:"phone"`
	Country   string `gorm:"size:100" json:"country"`
	Avatar    string `gorm:"size:255" json:"avatar"`

	// Role is an informational label ("user", "product_moderator",
	// "content_manager"); authorization decisions read Permissions.
	Role string `gorm:"size:50;default:user" json:"role"`

	// Permissions holds the blanket grants this user carries.
	Permissions []string `gorm:"serializer:json" json:"permissions"`
}

// HasPerm reports whether the user holds the given blanket permission.
func (u *User) HasPerm(perm string) bool {
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
