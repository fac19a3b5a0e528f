package middleware

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/skillkhoj/backend/internal/app/models/dto"
)

// BindJSON binds the request body into obj. On failure it writes a 400 with
// one entry per invalid field and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleBindingError(c, err)
		return false
	}
	return true
}

// BindOptionalJSON is BindJSON for endpoints whose body may be omitted. An
// empty body leaves obj untouched whether or not Content-Length was sent.
func BindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		HandleBindingError(c, err)
		return false
	}
	return true
}

// HandleBindingError answers a failed ShouldBindJSON call
func HandleBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrorCodeValidationFailed, "Invalid request format"))
		return
	}

	fields := make([]dto.FieldError, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, dto.FieldError{
			Field:   jsonFieldName(e),
			Message: formatValidationError(e),
		})
	}
	c.AbortWithStatusJSON(http.StatusBadRequest,
		dto.NewErrorResponse(dto.ErrorCodeValidationFailed, fields[0].Message).WithDetails(fields))
}

// jsonFieldName lower-cases the first letter of the struct field, which
// matches the json tags used by the request DTOs.
func jsonFieldName(e validator.FieldError) string {
	f := e.Field()
	if f == "" {
		return f
	}
	return strings.ToLower(f[:1]) + f[1:]
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	field := jsonFieldName(e)
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param() + " characters"
	case "max":
		return field + " must be at most " + e.Param() + " characters"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + e.Param()
	default:
		return field + " validation failed: " + e.Tag()
	}
}
