// Package controllers maps HTTP requests onto the service layer and
// service errors onto the response taxonomy.
package controllers

import (
	"errors"
	"net/http"

	"github.com/nairobitech/duka/app/services"
	"github.com/nairobitech/duka/pkg/logger"
	"github.com/nairobitech/duka/pkg/orm"
	"github.com/nairobitech/duka/pkg/response"
)

// fail translates a service error into the right HTTP response.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case orm.IsNotFound(err):
		response.NotFound(w)
	case errors.Is(err, services.ErrEmailTaken):
		response.Error(w, http.StatusBadRequest, services.ErrEmailTaken.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, services.ErrInvalidCredentials.Error())
	case errors.Is(err, services.ErrNoValidItems):
		response.Error(w, http.StatusBadRequest, services.ErrNoValidItems.Error())
	case errors.Is(err, services.ErrInvalidQuantity):
		response.Error(w, http.StatusUnprocessableEntity, services.ErrInvalidQuantity.Error())
	case errors.Is(err, services.ErrLastAdmin):
		response.Error(w, http.StatusForbidden, services.ErrLastAdmin.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnknownStatus):
		response.Error(w, http.StatusUnprocessableEntity, services.ErrUnknownStatus.Error())
	case errors.Is(err, services.ErrNotReviewOwner):
		response.Forbidden(w)
	default:
		logger.WithCtx(r.Context()).Error("request failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Something went wrong")
	}
}
