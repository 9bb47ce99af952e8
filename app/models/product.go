package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product statuses.
const (
	ProductActive   = "active"
	ProductInactive = "inactive"
	ProductDraft    = "draft"
)

// Product is a catalogue item. Rating and ReviewCount are derived fields
// maintained by the review aggregator; nothing else writes them.
type Product struct {
	ID          string          `gorm:"size:36;primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null;index" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	CategoryID  string          `gorm:"size:36;index" json:"categoryId"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	ImagesJSON  string          `gorm:"column:images;type:text" json:"-"`
	SKU         string          `gorm:"size:100;uniqueIndex" json:"sku"`
	Rating      decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0" json:"rating"`
	ReviewCount int             `gorm:"not null;default:0" json:"reviewCount"`
	Status      string          `gorm:"size:50;not null;default:active" json:"status"`
	Featured    bool            `gorm:"not null;default:false" json:"featured"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	// Images is the decoded form of ImagesJSON, hydrated by hooks.
	Images []string `gorm:"-" json:"images"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave serialises the ordered image URL list into the stored column.
func (p *Product) BeforeSave(*gorm.DB) error {
	if p.Images == nil {
		p.Images = []string{}
	}
	raw, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	p.ImagesJSON = string(raw)
	return nil
}

// AfterFind hydrates Images from the stored column.
func (p *Product) AfterFind(*gorm.DB) error {
	p.Images = []string{}
	if p.ImagesJSON == "" {
		return nil
	}
	return json.Unmarshal([]byte(p.ImagesJSON), &p.Images)
}
