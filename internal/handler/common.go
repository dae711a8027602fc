package handler

import (
	"errors"
	"net/http"

	"github.com/sebastianmarines/assetgridapp/internal/models"
	"github.com/sebastianmarines/assetgridapp/internal/service"
	"github.com/sebastianmarines/assetgridapp/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated user out of the gin context. It writes
// the error response itself when the user is missing.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("currentUser")
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	return user, true
}

// serviceError maps service error kinds onto HTTP statuses and the shared
// error envelope.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case errors.Is(err, service.ErrForbidden):
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "forbidden")
	case errors.Is(err, service.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "not found")
	case errors.Is(err, service.ErrDuplicate):
		util.Error(c, http.StatusConflict, util.CodeDuplicate, "duplicate identifier")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
	}
}
