package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"datamap-backend/internal/errs"
)

type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func Fail(c *gin.Context, statusCode int, err error, message string) {
	resp := APIResponse{
		Status:  "error",
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(statusCode, resp)
}

// FailError maps the error taxonomy to a status class: configuration errors
// are 503, lookup misses 404, duplicates 409, bad input and illegal workflow
// transitions 400, anything else is an upstream failure.
func FailError(c *gin.Context, err error, message string) {
	Fail(c, StatusFor(err), err, message)
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrInvalidInput), errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
