package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the primary account model.
type User struct {
	ID              string    `gorm:"size:36;primaryKey" json:"id"`
	Email           string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password        string    `gorm:"size:255" json:"-"` // bcrypt hash, never serialised
	FirstName       string    `gorm:"size:100;not null" json:"firstName"`
	LastName        string    `gorm:"size:100" json:"lastName"`
	Role            string    `gorm:"size:50;not null;default:user" json:"role"`
	ProfileImageURL string    `gorm:"size:512" json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == "admin" }
