package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a customer review for a product. Rating runs 1 to 5.
type Review struct {
	ID        string    `gorm:"size:36;primaryKey" json:"id"`
	ProductID string    `gorm:"size:36;not null;index" json:"productId"`
	UserID    string    `gorm:"size:36;not null;index" json:"userId"`
	Rating    int       `gorm:"not null" json:"rating"`
	Title     string    `gorm:"size:255" json:"title"`
	Comment   string    `gorm:"type:text" json:"comment"`
	Verified  bool      `gorm:"not null;default:false" json:"verified"`
	Helpful   int       `gorm:"not null;default:0" json:"helpful"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (r *Review) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
