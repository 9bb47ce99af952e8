package controllers

import (
	"net/http"

	"github.com/nairobitech/duka/app/services"
	"github.com/nairobitech/duka/pkg/bind"
	"github.com/nairobitech/duka/pkg/middleware"
	"github.com/nairobitech/duka/pkg/response"
	"github.com/nairobitech/duka/pkg/router"
)

// ReviewController handles product reviews and the helpful counter.
type ReviewController struct {
	service *services.ReviewService
}

func NewReviewController() *ReviewController {
	return &ReviewController{service: services.NewReviewService()}
}

// Index lists a product's reviews. Public.
func (c *ReviewController) Index(w http.ResponseWriter, r *http.Request) {
	reviews, err := c.service.ForProduct(router.Param(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, reviews)
}

// Store creates a review on a product.
func (c *ReviewController) Store(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in services.ReviewInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	review, err := c.service.Create(router.Param(r, "id"), userID, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, review)
}

// Update edits the caller's review.
func (c *ReviewController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in services.ReviewInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	review, err := c.service.Update(router.Param(r, "id"), userID, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, review)
}

// Destroy removes the caller's review (admins may remove any).
func (c *ReviewController) Destroy(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	if err := c.service.Delete(router.Param(r, "id"), p.ID, p.Role); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "Review deleted"})
}

// Helpful bumps the review's helpful counter.
func (c *ReviewController) Helpful(w http.ResponseWriter, r *http.Request) {
	review, err := c.service.MarkHelpful(router.Param(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, review)
}
