package apperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Error is the service-layer error taxonomy. Handlers never pick status codes
// themselves; they pass whatever the service returned to Write.
type Error struct {
	Code    string `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *Error) Error() string { return e.Message }

func Validation(message string, details any) *Error {
	return &Error{Code: "VALIDATION_ERROR", Status: http.StatusBadRequest, Message: message, Details: details}
}

func Authentication(message string) *Error {
	return &Error{Code: "AUTHENTICATION_ERROR", Status: http.StatusUnauthorized, Message: message}
}

func Authorization(message string) *Error {
	return &Error{Code: "AUTHORIZATION_ERROR", Status: http.StatusForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Code: "NOT_FOUND", Status: http.StatusNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Code: "CONFLICT", Status: http.StatusConflict, Message: message}
}

func Unprocessable(message string, details any) *Error {
	return &Error{Code: "UNPROCESSABLE_ENTITY", Status: http.StatusUnprocessableEntity, Message: message, Details: details}
}

func Internal(message string) *Error {
	return &Error{Code: "INTERNAL_SERVER_ERROR", Status: http.StatusInternalServerError, Message: message}
}

type body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path"`
	Details any    `json:"details,omitempty"`
}

// Write renders err as {"error":{code,message,path,details}}. Anything that is
// not an *Error is logged and surfaced as a generic 500.
func Write(c *gin.Context, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
		appErr = Internal("An unexpected error occurred")
	}
	c.AbortWithStatusJSON(appErr.Status, gin.H{"error": body{
		Code:    appErr.Code,
		Message: appErr.Message,
		Path:    c.Request.URL.Path,
		Details: appErr.Details,
	}})
}
