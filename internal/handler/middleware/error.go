package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"court-booking/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the most recent public error when the handler recorded one without writing a body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		if resp, ok := lastPublicResponse(c.Errors); ok {
			c.JSON(resp.Status, resp)
			return
		}
		// bodiless replies such as 204
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Writer.WriteHeaderNow()
			return
		}
		c.JSON(http.StatusInternalServerError, httperr.Internal())
	}
}

func lastPublicResponse(errors []*gin.Error) (httperr.Response, bool) {
	for i := len(errors) - 1; i >= 0; i-- {
		if !errors[i].IsType(gin.ErrorTypePublic) {
			continue
		}
		if resp, ok := errors[i].Meta.(httperr.Response); ok {
			return resp, true
		}
	}
	return httperr.Response{}, false
}

func CustomRecovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.ErrorContext(c.Request.Context(), "recovered from panic",
					"error", err,
					"request_id", GetRequestID(c),
					"method", c.Request.Method,
					"route", c.FullPath(),
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, httperr.Internal())
			}
		}()
		c.Next()
	}
}
