package controllers

import (
	"net/http"
	"strconv"

	"github.com/nairobitech/duka/app/services"
	"github.com/nairobitech/duka/pkg/bind"
	"github.com/nairobitech/duka/pkg/response"
	"github.com/nairobitech/duka/pkg/router"
)

// AdminController handles the dashboard stats and user management.
type AdminController struct {
	stats *services.StatsService
	users *services.UserService
}

func NewAdminController() *AdminController {
	return &AdminController{
		stats: services.NewStatsService(),
		users: services.NewUserService(),
	}
}

// Stats returns the dashboard summary.
func (c *AdminController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.stats.Summary()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, stats)
}

// Users lists accounts with pagination.
func (c *AdminController) Users(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	users, pagination, err := c.users.List(page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, users, pagination)
}

// StoreUser creates an account from the back office.
func (c *AdminController) StoreUser(w http.ResponseWriter, r *http.Request) {
	var in services.AdminUserInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.users.Create(in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, user)
}

// DestroyUser removes an account.
func (c *AdminController) DestroyUser(w http.ResponseWriter, r *http.Request) {
	if err := c.users.Delete(router.Param(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "User deleted"})
}
