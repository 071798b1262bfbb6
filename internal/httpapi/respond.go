package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/event-directory/internal/directory"
	"github.com/example/event-directory/internal/logging"
)

// errorResponse is the wire shape of every failure payload.
type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// writeError maps the directory error taxonomy onto HTTP status codes: the
// inverse of what the remote client applies on the way back in.
func writeError(c *gin.Context, err error) {
	logger := logging.FromContext(c.Request.Context())

	var vErr *directory.ValidationError
	switch {
	case errors.Is(err, directory.ErrUnauthorized), errors.Is(err, directory.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: "invalid or missing credentials"})
	case errors.Is(err, directory.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Message: "resource not found"})
	case errors.As(err, &vErr):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, errorResponse{
			Message: "validation failed",
			Errors:  vErr.FieldErrors,
		})
	default:
		if logger != nil {
			logger.ErrorContext(c.Request.Context(), "request failed", "error", err, "error_kind", directory.ErrorKind(err))
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Message: "internal error"})
	}
}

func writeBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Message: message})
}
