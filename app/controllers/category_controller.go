package controllers

import (
	"net/http"

	"github.com/nairobitech/duka/app/services"
	"github.com/nairobitech/duka/pkg/bind"
	"github.com/nairobitech/duka/pkg/response"
	"github.com/nairobitech/duka/pkg/router"
)

// CategoryController handles public category reads and admin writes.
type CategoryController struct {
	catalog *services.CatalogService
}

func NewCategoryController() *CategoryController {
	return &CategoryController{catalog: services.NewCatalogService()}
}

// Index lists all categories, name-ordered.
func (c *CategoryController) Index(w http.ResponseWriter, r *http.Request) {
	categories, err := c.catalog.Categories()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, categories)
}

// Store creates a category. Admin only.
func (c *CategoryController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.CategoryInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	category, err := c.catalog.CreateCategory(in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, category)
}

// Update edits a category. Admin only.
func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	var in services.CategoryInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	category, err := c.catalog.UpdateCategory(router.Param(r, "id"), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, category)
}

// Destroy removes a category. Admin only.
func (c *CategoryController) Destroy(w http.ResponseWriter, r *http.Request) {
	if err := c.catalog.DeleteCategory(router.Param(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "Category deleted"})
}
