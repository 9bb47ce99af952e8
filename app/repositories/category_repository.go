package repositories

import (
	"github.com/nairobitech/duka/app/models"
	"github.com/nairobitech/duka/pkg/orm"
)

// CategoryRepository handles database operations for Category.
type CategoryRepository struct{}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

// All returns every category ordered by name.
func (r *CategoryRepository) All() ([]models.Category, error) {
	var categories []models.Category
	err := orm.DB().Model(&models.Category{}).Order("name ASC").Get(&categories)
	return categories, err
}

// FindByID looks up a category by primary key.
func (r *CategoryRepository) FindByID(id string) (models.Category, error) {
	var category models.Category
	err := orm.DB().Model(&models.Category{}).Where("id = ?", id).First(&category)
	return category, err
}

// FindBySlug looks up a category by its slug.
func (r *CategoryRepository) FindBySlug(slug string) (models.Category, error) {
	var category models.Category
	err := orm.DB().Model(&models.Category{}).Where("slug = ?", slug).First(&category)
	return category, err
}

// Create persists a new category.
func (r *CategoryRepository) Create(category *models.Category) error {
	return orm.DB().Create(category)
}

// Update persists changes to an existing category.
func (r *CategoryRepository) Update(category *models.Category) error {
	return orm.DB().Save(category)
}

// Delete removes a category.
func (r *CategoryRepository) Delete(id string) error {
	return orm.DB().Where("id = ?", id).Delete(&models.Category{})
}
