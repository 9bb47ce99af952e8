package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nairobitech/duka/app/models"
	"github.com/nairobitech/duka/app/repositories"
	"github.com/nairobitech/duka/pkg/collection"
)

// ErrNotReviewOwner is returned when a user edits someone else's review.
var ErrNotReviewOwner = errors.New("review belongs to another user")

// ReviewInput is the payload for creating or updating a review.
type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title   string `json:"title" validate:"max=255"`
	Comment string `json:"comment"`
}

// ReviewService manages reviews and keeps the product rating aggregates
// in sync. Product.Rating and Product.ReviewCount are written here and
// nowhere else.
type ReviewService struct {
	reviews  *repositories.ReviewRepository
	products *repositories.ProductRepository
}

func NewReviewService() *ReviewService {
	return &ReviewService{
		reviews:  repositories.NewReviewRepository(),
		products: repositories.NewProductRepository(),
	}
}

// ForProduct lists a product's reviews.
func (s *ReviewService) ForProduct(productID string) ([]models.Review, error) {
	if _, err := s.products.FindByID(productID); err != nil {
		return nil, err
	}
	return s.reviews.ForProduct(productID)
}

// Create stores a review and recomputes the product aggregate.
func (s *ReviewService) Create(productID, userID string, in ReviewInput) (models.Review, error) {
	if _, err := s.products.FindByID(productID); err != nil {
		return models.Review{}, err
	}

	review := models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    in.Rating,
		Title:     in.Title,
		Comment:   in.Comment,
	}
	if err := s.reviews.Create(&review); err != nil {
		return models.Review{}, fmt.Errorf("review: create: %w", err)
	}

	if err := s.recompute(productID); err != nil {
		return models.Review{}, err
	}
	return review, nil
}

// Update edits the caller's review and recomputes the aggregate.
func (s *ReviewService) Update(id, userID string, in ReviewInput) (models.Review, error) {
	review, err := s.reviews.FindByID(id)
	if err != nil {
		return models.Review{}, err
	}
	if review.UserID != userID {
		return models.Review{}, ErrNotReviewOwner
	}

	review.Rating = in.Rating
	review.Title = in.Title
	review.Comment = in.Comment
	if err := s.reviews.Update(&review); err != nil {
		return models.Review{}, fmt.Errorf("review: update: %w", err)
	}

	if err := s.recompute(review.ProductID); err != nil {
		return models.Review{}, err
	}
	return review, nil
}

// Delete removes the caller's review and recomputes the aggregate.
// Admins may delete any review.
func (s *ReviewService) Delete(id, userID, role string) error {
	review, err := s.reviews.FindByID(id)
	if err != nil {
		return err
	}
	if review.UserID != userID && role != "admin" {
		return ErrNotReviewOwner
	}

	if err := s.reviews.Delete(id); err != nil {
		return fmt.Errorf("review: delete: %w", err)
	}
	return s.recompute(review.ProductID)
}

// MarkHelpful bumps the helpful counter. No de-duplication: every call
// counts.
func (s *ReviewService) MarkHelpful(id string) (models.Review, error) {
	if _, err := s.reviews.FindByID(id); err != nil {
		return models.Review{}, err
	}
	if err := s.reviews.IncrementHelpful(id); err != nil {
		return models.Review{}, fmt.Errorf("review: mark helpful: %w", err)
	}
	return s.reviews.FindByID(id)
}

// recompute writes rating (mean of remaining ratings, 2 decimal places)
// and review count onto the product. No reviews means rating 0, count 0.
func (s *ReviewService) recompute(productID string) error {
	ratings, err := s.reviews.RatingsForProduct(productID)
	if err != nil {
		return fmt.Errorf("review: load ratings: %w", err)
	}

	product, err := s.products.FindByID(productID)
	if err != nil {
		return err
	}

	if len(ratings) == 0 {
		product.Rating = decimal.Zero
		product.ReviewCount = 0
	} else {
		sum := collection.Reduce(ratings, decimal.Zero, func(sum decimal.Decimal, r int) decimal.Decimal {
			return sum.Add(decimal.NewFromInt(int64(r)))
		})
		product.Rating = sum.Div(decimal.NewFromInt(int64(len(ratings)))).Round(2)
		product.ReviewCount = len(ratings)
	}

	if err := s.products.Update(&product); err != nil {
		return fmt.Errorf("review: write aggregate: %w", err)
	}
	return nil
}
