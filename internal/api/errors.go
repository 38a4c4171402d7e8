package api

import (
	"net/http"

	"linkmark/internal/entity"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Generic
	ErrCodeInvalidRequest     = "ERR_INVALID_REQUEST"
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeInternalError      = "ERR_INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"

	// Auth
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeEmailExists        = "ERR_EMAIL_EXISTS"
	ErrCodeSessionExpired     = "ERR_SESSION_EXPIRED"
	ErrCodeUserNotFound       = "ERR_USER_NOT_FOUND"

	// Resources
	ErrCodeBookmarkNotFound = "ERR_BOOKMARK_NOT_FOUND"
	ErrCodeTagNotFound      = "ERR_TAG_NOT_FOUND"
	ErrCodeCategoryNotFound = "ERR_CATEGORY_NOT_FOUND"

	// Validation
	ErrCodeMissingField = "ERR_MISSING_FIELD"
)

// APIError is the error variant of the response envelope.
type APIError struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse writes the success variant of the response envelope.
func SuccessResponse(c *gin.Context, status int, data any) {
	c.JSON(status, entity.Response{Success: true, Data: data})
}

// ErrorResponse writes the error variant of the response envelope.
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, APIError{
		Success: false,
		Code:    code,
		Message: message,
	})
}

// ErrorResponseWithDetails writes an error response carrying details.
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, APIError{
		Success: false,
		Code:    code,
		Message: message,
		Details: details,
	})
}

// Shortcut responders

// BadRequest writes a 400 response.
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// Unauthorized writes a 401 response.
func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// Forbidden writes a 403 response.
func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound writes a 404 response.
func NotFound(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusNotFound, code, message)
}

// InternalError writes a 500 response.
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// ServiceUnavailable writes a 503 response.
func ServiceUnavailable(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

// MissingField writes a 400 response naming the missing required field.
func MissingField(c *gin.Context, field string) {
	ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeMissingField, field+" is required", gin.H{"field": field})
}

// InvalidPayload writes a 400 response for an unreadable request body.
func InvalidPayload(c *gin.Context) {
	ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request payload")
}
