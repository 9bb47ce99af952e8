package services

import (
	"errors"
	"fmt"

	"github.com/nairobitech/duka/app/jobs"
	"github.com/nairobitech/duka/app/models"
	"github.com/nairobitech/duka/app/repositories"
	"github.com/nairobitech/duka/pkg/auth"
	"github.com/nairobitech/duka/pkg/logger"
	"github.com/nairobitech/duka/pkg/orm"
	"github.com/nairobitech/duka/pkg/queue"
)

var (
	// ErrEmailTaken is returned when registering an email that already has an account.
	ErrEmailTaken = errors.New("user already exists")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"`
	Password  string `json:"password" validate:"required,min=6"`
}

// AuthService implements registration, login and account lookup.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// Register creates a new account, hashes the password and queues the
// welcome email. A taken email yields ErrEmailTaken.
func (s *AuthService) Register(in RegisterInput) (models.User, error) {
	if _, err := s.users.FindByEmail(in.Email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !orm.IsNotFound(err) {
		return models.User{}, fmt.Errorf("auth: check email: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("auth: hash password: %w", err)
	}

	user := models.User{
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      "user",
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, fmt.Errorf("auth: create user: %w", err)
	}

	if err := queue.Dispatch(jobs.WelcomeEmailJob{Email: user.Email, FirstName: user.FirstName}); err != nil {
		// Email delivery never blocks registration.
		logger.Error("auth: queue welcome email", "user", user.ID, "error", err)
	}

	return user, nil
}

// Login verifies the credentials and returns the account.
func (s *AuthService) Login(email, password string) (models.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if orm.IsNotFound(err) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("auth: find user: %w", err)
	}

	if user.Password == "" || !auth.CheckPassword(user.Password, password) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// UserByID loads an account by id.
func (s *AuthService) UserByID(id string) (models.User, error) {
	return s.users.FindByID(id)
}

// Token issues a JWT for non-browser clients.
func (s *AuthService) Token(user models.User) (string, error) {
	return auth.GenerateToken(user.ID, user.Role)
}
