package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes shared by middleware and handlers. Use-case specific codes live next to their mapping.
const (
	CodeInternal        = "internal"
	CodeUnauthenticated = "unauthenticated"
	CodeForbidden       = "forbidden"
	CodeBadRequest      = "bad_request"
)

type Response struct {
	Status int   `json:"-"`
	Error  Error `json:"error"`
	Detail any   `json:"detail,omitempty"`
}

// Error carries a stable machine-readable code alongside the human message.
type Error struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func New(status int, code, msg string, detail any) Response {
	return Response{
		Status: status,
		Error:  Error{Code: code, Message: msg},
		Detail: detail,
	}
}

func Internal() Response {
	return New(http.StatusInternalServerError, CodeInternal, "Internal server error", nil)
}

// Abort writes resp and records err on the context so the request log carries the cause.
func Abort(c *gin.Context, err error, resp Response) {
	if err == nil {
		panic("httperr.Abort: err cannot be nil")
	}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(resp.Status, resp)
}

func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	Abort(c, err, New(status, codeFor(status), msg, detail))
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusUnauthorized:
		return CodeUnauthenticated
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusInternalServerError:
		return CodeInternal
	default:
		return ""
	}
}
