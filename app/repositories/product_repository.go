package repositories

import (
	"strings"

	"github.com/nairobitech/duka/app/models"
	"github.com/nairobitech/duka/pkg/orm"
)

// ProductFilter narrows a product listing. Zero values mean "no filter".
type ProductFilter struct {
	CategoryID string
	Search     string
	Limit      int
	Offset     int
}

// ProductRepository handles database operations for Product.
type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// Active returns active products matching the filter.
// Search matches name or description, case-insensitively.
func (r *ProductRepository) Active(f ProductFilter) ([]models.Product, error) {
	q := orm.DB().Model(&models.Product{}).Where("status = ?", models.ProductActive)

	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Search != "" {
		needle := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", needle, needle)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var products []models.Product
	err := q.Order("created_at DESC").Get(&products)
	return products, err
}

// Featured returns the top-rated active products.
func (r *ProductRepository) Featured(limit int) ([]models.Product, error) {
	var products []models.Product
	err := orm.DB().Model(&models.Product{}).
		Where("status = ?", models.ProductActive).
		Order("rating DESC, review_count DESC").
		Limit(limit).
		Get(&products)
	return products, err
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(id string) (models.Product, error) {
	var product models.Product
	err := orm.DB().Model(&models.Product{}).Where("id = ?", id).First(&product)
	return product, err
}

// Create persists a new product.
func (r *ProductRepository) Create(product *models.Product) error {
	return orm.DB().Create(product)
}

// Update persists changes to an existing product.
func (r *ProductRepository) Update(product *models.Product) error {
	return orm.DB().Save(product)
}

// Delete removes a product.
func (r *ProductRepository) Delete(id string) error {
	return orm.DB().Where("id = ?", id).Delete(&models.Product{})
}

// Count returns the total number of products.
func (r *ProductRepository) Count() (int64, error) {
	var n int64
	err := orm.DB().Model(&models.Product{}).Count(&n)
	return n, err
}
