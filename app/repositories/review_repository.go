package repositories

import (
	"gorm.io/gorm"

	"github.com/nairobitech/duka/app/models"
	"github.com/nairobitech/duka/pkg/database"
	"github.com/nairobitech/duka/pkg/orm"
)

// ReviewRepository handles database operations for Review.
type ReviewRepository struct{}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

// ForProduct returns a product's reviews with their authors, newest first.
func (r *ReviewRepository) ForProduct(productID string) ([]models.Review, error) {
	var reviews []models.Review
	err := orm.DB().Model(&models.Review{}).
		Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Get(&reviews)
	return reviews, err
}

// FindByID looks up a review by primary key.
func (r *ReviewRepository) FindByID(id string) (models.Review, error) {
	var review models.Review
	err := orm.DB().Model(&models.Review{}).Where("id = ?", id).First(&review)
	return review, err
}

// Create persists a new review.
func (r *ReviewRepository) Create(review *models.Review) error {
	return orm.DB().Create(review)
}

// Update persists changes to an existing review.
func (r *ReviewRepository) Update(review *models.Review) error {
	return orm.DB().Save(review)
}

// Delete removes a review.
func (r *ReviewRepository) Delete(id string) error {
	return orm.DB().Where("id = ?", id).Delete(&models.Review{})
}

// IncrementHelpful bumps the helpful counter atomically in the database.
func (r *ReviewRepository) IncrementHelpful(id string) error {
	return orm.DB().Model(&models.Review{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"helpful": gorm.Expr("helpful + 1")})
}

// RatingsForProduct returns the raw rating values of a product's reviews.
func (r *ReviewRepository) RatingsForProduct(productID string) ([]int, error) {
	var ratings []int
	err := database.DB.Model(&models.Review{}).
		Where("product_id = ?", productID).
		Pluck("rating", &ratings).Error
	return ratings, err
}
