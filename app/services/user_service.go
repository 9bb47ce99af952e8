package services

import (
	"errors"
	"fmt"

	"github.com/nairobitech/duka/app/models"
	"github.com/nairobitech/duka/app/repositories"
	"github.com/nairobitech/duka/pkg/orm"
)

// ErrLastAdmin is returned when a deletion would leave the back office
// without a single admin account.
var ErrLastAdmin = errors.New("cannot delete the last admin user")

// AdminUserInput is the payload for back-office user creation. These
// accounts have no password until the person registers one themselves.
type AdminUserInput struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"`
	Role      string `json:"role" validate:"nullable,in=user,admin"`
}

// UserService implements back-office user management.
type UserService struct {
	users *repositories.UserRepository
}

func NewUserService() *UserService {
	return &UserService{users: repositories.NewUserRepository()}
}

// List returns users with pagination.
func (s *UserService) List(page, limit int) ([]models.User, orm.Pagination, error) {
	return s.users.All(page, limit)
}

// Create adds a passwordless account from the back office.
func (s *UserService) Create(in AdminUserInput) (models.User, error) {
	if _, err := s.users.FindByEmail(in.Email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !orm.IsNotFound(err) {
		return models.User{}, fmt.Errorf("users: check email: %w", err)
	}

	role := in.Role
	if role == "" {
		role = "user"
	}
	user := models.User{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      role,
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, fmt.Errorf("users: create: %w", err)
	}
	return user, nil
}

// Delete removes an account. Deleting the last remaining admin is
// refused, otherwise the back office could lock itself out. Any session
// the account holds dies on its next request when the principal lookup
// fails.
func (s *UserService) Delete(id string) error {
	user, err := s.users.FindByID(id)
	if err != nil {
		return err
	}

	if user.Role == "admin" {
		admins, err := s.users.CountByRole("admin")
		if err != nil {
			return fmt.Errorf("users: count admins: %w", err)
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	return s.users.Delete(id)
}
