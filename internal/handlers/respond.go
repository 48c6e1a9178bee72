package handlers

import (
	"errors"
	"net/http"

	apperrors "github.com/araf-Mahmud-2004/NearNest/pkg/errors"
	"github.com/gin-gonic/gin"
)

// respondError maps store-layer errors onto HTTP responses. Anything that is
// not an AppError is treated as an internal failure.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message, "kind": appErr.Kind})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
