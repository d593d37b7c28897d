package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/playvault/storefront/internal/domain/errors"
	"github.com/playvault/storefront/internal/server/http/dto"
	"github.com/playvault/storefront/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, dto.ErrorResponse{Error: message})
}

// respondDomainError maps domain sentinels to HTTP statuses with the error
// envelope.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domainErrors.ErrInvalidFullName),
		errors.Is(err, domainErrors.ErrInvalidEmail),
		errors.Is(err, domainErrors.ErrInvalidProofURL),
		errors.Is(err, domainErrors.ErrInvalidMessage),
		errors.Is(err, domainErrors.ErrInvalidTransition),
		errors.Is(err, domainErrors.ErrAlreadyDelivered),
		errors.Is(err, domainErrors.ErrSelfRevoke):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}
