package repositories

import (
	"github.com/nairobitech/duka/app/models"
	"github.com/nairobitech/duka/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("email = ?", email).First(&user)
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id string) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("id = ?", id).First(&user)
	return user, err
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return orm.DB().Create(user)
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	return orm.DB().Save(user)
}

// Delete removes a user record.
func (r *UserRepository) Delete(id string) error {
	return orm.DB().Where("id = ?", id).Delete(&models.User{})
}

// All returns users with pagination, newest first.
func (r *UserRepository) All(page, limit int) ([]models.User, orm.Pagination, error) {
	var users []models.User
	pagination, err := orm.DB().Model(&models.User{}).
		Order("created_at DESC").
		GetWithPagination(&users, page, limit)
	return users, pagination, err
}

// CountByRole returns how many users hold the given role.
func (r *UserRepository) CountByRole(role string) (int64, error) {
	var n int64
	err := orm.DB().Model(&models.User{}).Where("role = ?", role).Count(&n)
	return n, err
}

// Count returns the total number of users.
func (r *UserRepository) Count() (int64, error) {
	var n int64
	err := orm.DB().Model(&models.User{}).Count(&n)
	return n, err
}
