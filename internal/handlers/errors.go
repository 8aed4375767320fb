package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/authz"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/logger"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/validation"
)

// respondError maps a service error to its HTTP response.
func respondError(c *gin.Context, err error) {
	var dupErr *services.DuplicateIdentityError

	switch {
	case errors.As(err, &dupErr):
		var details gin.H
		if dupErr.Field != "" {
			details = gin.H{"field": dupErr.Field}
		}
		apierrors.Conflict(c, apierrors.ErrCodeDuplicateIdentity, dupErr.Error(), details)
	case errors.Is(err, services.ErrAlreadyCollaborating):
		apierrors.Conflict(c, apierrors.ErrCodeAlreadyCollaborating, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, authz.ErrForbidden):
		apierrors.Forbidden(c)
	case errors.Is(err, auth.ErrUnknownSubject):
		apierrors.Unauthorized(c, apierrors.ErrCodeUnknownSubject, "Token subject no longer exists")
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrCollaboratorNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidUsername),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrPasswordTooLong),
		errors.Is(err, services.ErrProjectNameRequired),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrOwnerRoleFixed),
		errors.Is(err, services.ErrCollaboratorRequired),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidAssignee):
		apierrors.BadRequest(c, err.Error())
	default:
		logger.ErrorContext(c.Request.Context(), "request failed", "error", err)
		apierrors.InternalError(c, "")
	}
}

// bindJSON binds the request body, writing a 400 response on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

func respondBindError(c *gin.Context, err error) {
	if details, ok := validation.Details(err); ok {
		apierrors.ValidationFailed(c, details)
		return
	}
	apierrors.BadRequest(c, "Invalid request body")
}

// parseIDParam parses a positive numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// principal returns the caller resolved by middleware.RequireAuth.
func principal(c *gin.Context) (auth.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, apierrors.ErrCodeMissingToken, "")
	}
	return p, ok
}
