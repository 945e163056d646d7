package controllers

import (
	apperrors "WalkyTalky/pkg/errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// statusForCode maps application error codes onto HTTP statuses: 404
// missing, 401 password, 403 permission, 400 for conflicts/limits/bad
// input, 500 otherwise.
func statusForCode(code apperrors.Code) int {
	switch code {
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.CodePermissionDenied:
		return http.StatusForbidden
	case apperrors.CodeInvalidArgument, apperrors.CodeAlreadyExists, apperrors.CodeFailedPrecondition:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusForCode(apperrors.CodeOf(err)), gin.H{"error": err.Error()})
}
