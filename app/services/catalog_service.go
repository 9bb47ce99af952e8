package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nairobitech/duka/app/models"
	"github.com/nairobitech/duka/app/repositories"
	"github.com/nairobitech/duka/pkg/cache"
)

const (
	cacheKeyCategories = "duka:catalog:categories"
	cacheKeyFeatured   = "duka:catalog:featured"
	catalogTTL         = 5 * time.Minute
)

// CatalogService serves public catalogue reads and admin catalogue writes.
// Hot reads go through Redis; admin writes invalidate.
type CatalogService struct {
	categories *repositories.CategoryRepository
	products   *repositories.ProductRepository
}

func NewCatalogService() *CatalogService {
	return &CatalogService{
		categories: repositories.NewCategoryRepository(),
		products:   repositories.NewProductRepository(),
	}
}

// ------------------- Categories -------------------

// Categories returns all categories ordered by name, cached.
func (s *CatalogService) Categories() ([]models.Category, error) {
	var cached []models.Category
	if cache.Get(cacheKeyCategories, &cached) {
		return cached, nil
	}

	list, err := s.categories.All()
	if err != nil {
		return nil, fmt.Errorf("catalog: list categories: %w", err)
	}
	cache.Set(cacheKeyCategories, list, catalogTTL)
	return list, nil
}

// CategoryInput is the payload for category writes.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Slug        string `json:"slug" validate:"required,alpha_dash"`
	Description string `json:"description"`
}

// CreateCategory persists a new category.
func (s *CatalogService) CreateCategory(in CategoryInput) (models.Category, error) {
	category := models.Category{Name: in.Name, Slug: in.Slug, Description: in.Description}
	if err := s.categories.Create(&category); err != nil {
		return models.Category{}, fmt.Errorf("catalog: create category: %w", err)
	}
	s.invalidate()
	return category, nil
}

// UpdateCategory applies the input to an existing category.
func (s *CatalogService) UpdateCategory(id string, in CategoryInput) (models.Category, error) {
	category, err := s.categories.FindByID(id)
	if err != nil {
		return models.Category{}, err
	}
	category.Name = in.Name
	category.Slug = in.Slug
	category.Description = in.Description
	if err := s.categories.Update(&category); err != nil {
		return models.Category{}, fmt.Errorf("catalog: update category: %w", err)
	}
	s.invalidate()
	return category, nil
}

// DeleteCategory removes a category.
func (s *CatalogService) DeleteCategory(id string) error {
	if _, err := s.categories.FindByID(id); err != nil {
		return err
	}
	if err := s.categories.Delete(id); err != nil {
		return fmt.Errorf("catalog: delete category: %w", err)
	}
	s.invalidate()
	return nil
}

// ------------------- Products -------------------

// Products returns active products matching the filter. Filtered listings
// are not cached; only the unfiltered shapes are hot enough to matter.
func (s *CatalogService) Products(f repositories.ProductFilter) ([]models.Product, error) {
	return s.products.Active(f)
}

// Featured returns the top-rated active products, cached.
func (s *CatalogService) Featured(limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 8
	}

	key := fmt.Sprintf("%s:%d", cacheKeyFeatured, limit)
	var cached []models.Product
	if cache.Get(key, &cached) {
		return cached, nil
	}

	list, err := s.products.Featured(limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: featured products: %w", err)
	}
	cache.Set(key, list, catalogTTL)
	return list, nil
}

// Product returns one product by id, any status.
func (s *CatalogService) Product(id string) (models.Product, error) {
	return s.products.FindByID(id)
}

// ProductInput is the payload for product writes.
type ProductInput struct {
	Name        string   `json:"name" validate:"required,min=2,max=255"`
	Description string   `json:"description"`
	Price       string   `json:"price" validate:"required,numeric"`
	CategoryID  string   `json:"categoryId" validate:"required,uuid"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Images      []string `json:"images"`
	SKU         string   `json:"sku" validate:"required"`
	Status      string   `json:"status" validate:"nullable,in=active,inactive,draft"`
	Featured    bool     `json:"featured"`
}

func (in ProductInput) apply(p *models.Product) error {
	price, err := decimal.NewFromString(in.Price)
	if err != nil {
		return fmt.Errorf("catalog: bad price %q: %w", in.Price, err)
	}

	p.Name = in.Name
	p.Description = in.Description
	p.Price = price
	p.CategoryID = in.CategoryID
	p.Stock = in.Stock
	p.Images = in.Images
	p.SKU = in.SKU
	p.Featured = in.Featured
	if in.Status != "" {
		p.Status = in.Status
	} else if p.Status == "" {
		p.Status = models.ProductActive
	}
	return nil
}

// CreateProduct persists a new product. Rating fields start at zero and
// are owned by the review aggregator.
func (s *CatalogService) CreateProduct(in ProductInput) (models.Product, error) {
	if _, err := s.categories.FindByID(in.CategoryID); err != nil {
		return models.Product{}, err
	}

	var product models.Product
	if err := in.apply(&product); err != nil {
		return models.Product{}, err
	}
	product.Rating = decimal.Zero
	if err := s.products.Create(&product); err != nil {
		return models.Product{}, fmt.Errorf("catalog: create product: %w", err)
	}
	s.invalidate()
	return product, nil
}

// UpdateProduct applies the input to an existing product, leaving the
// derived rating fields untouched.
func (s *CatalogService) UpdateProduct(id string, in ProductInput) (models.Product, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		return models.Product{}, err
	}
	if err := in.apply(&product); err != nil {
		return models.Product{}, err
	}
	if err := s.products.Update(&product); err != nil {
		return models.Product{}, fmt.Errorf("catalog: update product: %w", err)
	}
	s.invalidate()
	return product, nil
}

// DeleteProduct removes a product.
func (s *CatalogService) DeleteProduct(id string) error {
	if _, err := s.products.FindByID(id); err != nil {
		return err
	}
	if err := s.products.Delete(id); err != nil {
		return fmt.Errorf("catalog: delete product: %w", err)
	}
	s.invalidate()
	return nil
}

// AppendImage adds a stored image URL to the end of the product's list.
func (s *CatalogService) AppendImage(id, url string) (models.Product, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		return models.Product{}, err
	}
	product.Images = append(product.Images, url)
	if err := s.products.Update(&product); err != nil {
		return models.Product{}, fmt.Errorf("catalog: append image: %w", err)
	}
	s.invalidate()
	return product, nil
}

func (s *CatalogService) invalidate() {
	cache.Forget(cacheKeyCategories)
	cache.ForgetPattern(cacheKeyFeatured + ":*")
}
