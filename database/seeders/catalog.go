package seeders

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nairobitech/duka/app/models"
)

func init() {
	Register("starter_catalog", SeedStarterCatalog)
}

// SeedStarterCatalog inserts a small catalogue so a fresh install has
// something to sell. Skipped when categories already exist.
func SeedStarterCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []models.Category{
		{Name: "Smartphones", Slug: "smartphones", Description: "Latest phones and accessories"},
		{Name: "Laptops", Slug: "laptops", Description: "Work and gaming laptops"},
		{Name: "Audio", Slug: "audio", Description: "Headphones, earbuds and speakers"},
	}
	for i := range categories {
		if err := db.Create(&categories[i]).Error; err != nil {
			return err
		}
	}

	price := func(s string) decimal.Decimal {
		d, _ := decimal.NewFromString(s)
		return d
	}

	products := []models.Product{
		{
			Name:        "Samsung Galaxy A54",
			Description: "6.4-inch AMOLED, 128GB storage, dual SIM",
			Price:       price("42999.00"),
			CategoryID:  categories[0].ID,
			Stock:       25,
			SKU:         "PHN-GA54-128",
			Status:      models.ProductActive,
			Featured:    true,
		},
		{
			Name:        "Lenovo IdeaPad 3",
			Description: "15.6-inch, Ryzen 5, 8GB RAM, 512GB SSD",
			Price:       price("58500.00"),
			CategoryID:  categories[1].ID,
			Stock:       10,
			SKU:         "LAP-IP3-R5",
			Status:      models.ProductActive,
		},
		{
			Name:        "Sony WH-CH520",
			Description: "Wireless on-ear headphones, 50h battery",
			Price:       price("6999.00"),
			CategoryID:  categories[2].ID,
			Stock:       40,
			SKU:         "AUD-CH520",
			Status:      models.ProductActive,
			Featured:    true,
		},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
