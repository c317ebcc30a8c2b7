// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Respond converts repo/service errors into a single JSON error shape.
// Keeps handlers clean by centralizing the mapping; only CodeInternal is
// flagged retryable so clients can distinguish transient storage failures
// from deterministic rejections.
func Respond(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": CodeNotFound, "error": "record not found"})
		return
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"code": CodeInternal, "error": "request timed out", "retryable": true})
		return
	}

	var e *Error
	if errors.As(err, &e) {
		c.JSON(httpStatus(e.Code), gin.H{"code": e.Code, "error": e.Msg})
		return
	}

	// fallback: infrastructure failure, the only retryable class
	c.JSON(http.StatusInternalServerError, gin.H{"code": CodeInternal, "error": err.Error(), "retryable": true})
}

func httpStatus(code Code) int {
	switch code {
	case CodeNotAuthenticated:
		return http.StatusUnauthorized
	case CodeNotAuthorized:
		return http.StatusForbidden
	case CodeValidation:
		return http.StatusBadRequest
	case CodePrecondition:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
