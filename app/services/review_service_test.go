package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairobitech/duka/app/models"
	"github.com/nairobitech/duka/app/services"
)

func TestReviewAggregateRoundsToTwoPlaces(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "alice@example.com", "user")
	other := seedUser(t, db, "bob@example.com", "user")
	third := seedUser(t, db, "carol@example.com", "user")
	category := seedCategory(t, db, "Audio", "audio")
	product := seedProduct(t, db, "Headphones", "60.00", category.ID)

	svc := services.NewReviewService()
	for _, tc := range []struct {
		userID string
		rating int
	}{
		{user.ID, 5},
		{other.ID, 4},
		{third.ID, 4},
	} {
		_, err := svc.Create(product.ID, tc.userID, services.ReviewInput{Rating: tc.rating, Title: "ok"})
		require.NoError(t, err)
	}

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	assert.Equal(t, "4.33", stored.Rating.StringFixed(2))
	assert.Equal(t, 3, stored.ReviewCount)
}

func TestReviewAggregateZeroesOnLastDelete(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "alice@example.com", "user")
	category := seedCategory(t, db, "Audio", "audio")
	product := seedProduct(t, db, "Headphones", "60.00", category.ID)

	svc := services.NewReviewService()
	review, err := svc.Create(product.ID, user.ID, services.ReviewInput{Rating: 5})
	require.NoError(t, err)

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	require.Equal(t, "5.00", stored.Rating.StringFixed(2))

	require.NoError(t, svc.Delete(review.ID, user.ID, "user"))

	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	assert.True(t, stored.Rating.IsZero())
	assert.Equal(t, 0, stored.ReviewCount)
}

func TestReviewUpdateRecomputesAggregate(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "alice@example.com", "user")
	category := seedCategory(t, db, "Audio", "audio")
	product := seedProduct(t, db, "Headphones", "60.00", category.ID)

	svc := services.NewReviewService()
	review, err := svc.Create(product.ID, user.ID, services.ReviewInput{Rating: 2})
	require.NoError(t, err)

	_, err = svc.Update(review.ID, user.ID, services.ReviewInput{Rating: 5, Title: "changed my mind"})
	require.NoError(t, err)

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	assert.Equal(t, "5.00", stored.Rating.StringFixed(2))
}

func TestReviewOwnershipEnforced(t *testing.T) {
	db := setupDB(t)
	owner := seedUser(t, db, "alice@example.com", "user")
	stranger := seedUser(t, db, "bob@example.com", "user")
	admin := seedUser(t, db, "admin@example.com", "admin")
	category := seedCategory(t, db, "Audio", "audio")
	product := seedProduct(t, db, "Headphones", "60.00", category.ID)

	svc := services.NewReviewService()
	review, err := svc.Create(product.ID, owner.ID, services.ReviewInput{Rating: 4})
	require.NoError(t, err)

	_, err = svc.Update(review.ID, stranger.ID, services.ReviewInput{Rating: 1})
	assert.ErrorIs(t, err, services.ErrNotReviewOwner)

	err = svc.Delete(review.ID, stranger.ID, stranger.Role)
	assert.ErrorIs(t, err, services.ErrNotReviewOwner)

	// Admins may delete anyone's review.
	require.NoError(t, svc.Delete(review.ID, admin.ID, admin.Role))
}

func TestMarkHelpfulIncrementsEveryTime(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "alice@example.com", "user")
	category := seedCategory(t, db, "Audio", "audio")
	product := seedProduct(t, db, "Headphones", "60.00", category.ID)

	svc := services.NewReviewService()
	review, err := svc.Create(product.ID, user.ID, services.ReviewInput{Rating: 4})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		review, err = svc.MarkHelpful(review.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, review.Helpful)
}
