package controllers

import (
	"net/http"

	"github.com/nairobitech/duka/app/services"
	"github.com/nairobitech/duka/pkg/bind"
	"github.com/nairobitech/duka/pkg/logger"
	"github.com/nairobitech/duka/pkg/middleware"
	"github.com/nairobitech/duka/pkg/response"
	"github.com/nairobitech/duka/pkg/session"
)

// AuthController handles registration, login, logout and account lookup.
type AuthController struct {
	service *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{service: services.NewAuthService()}
}

// Register creates an account and establishes a session.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.service.Register(in)
	if err != nil {
		fail(w, r, err)
		return
	}

	c.establish(w, r, user.ID)

	token, err := c.service.Token(user)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, map[string]interface{}{"user": user, "token": token})
}

// Login verifies credentials and establishes a session.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.service.Login(in.Email, in.Password)
	if err != nil {
		fail(w, r, err)
		return
	}

	c.establish(w, r, user.ID)

	token, err := c.service.Token(user)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{"user": user, "token": token})
}

// Logout destroys the current session.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := session.FromCtx(r); sess != nil {
		if err := sess.Destroy(w); err != nil {
			logger.WithCtx(r.Context()).Error("logout: destroy session", "error", err)
		}
	}
	response.Success(w, map[string]string{"message": "Logged out"})
}

// CurrentUser returns the authenticated account.
func (c *AuthController) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	user, err := c.service.UserByID(userID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}

func (c *AuthController) establish(w http.ResponseWriter, r *http.Request, userID string) {
	sess := session.FromCtx(r)
	if sess == nil {
		return
	}
	sess.Set("user_id", userID)
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Error("auth: save session", "error", err)
	}
}
