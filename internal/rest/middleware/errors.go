package middleware

import (
	"github.com/gin-gonic/gin"

	ierr "github.com/tierforge/tierforge/internal/errors"
)

// ErrorHandler converts errors attached via c.Error into the standard
// error envelope with the status mapped from the domain error mark.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		c.JSON(ierr.HTTPStatusFromErr(err), ierr.NewErrorResponse(err))
	}
}
