package handlers

import (
	"errors"
	"net/http"
	"strings"

	"cavea/internal/middleware"
	"cavea/internal/models"
	"cavea/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func currentUser(c *gin.Context) *models.User {
	return c.MustGet(middleware.ContextUserKey).(*models.User)
}

func currentToken(c *gin.Context) *models.AccessToken {
	return c.MustGet(middleware.ContextTokenKey).(*models.AccessToken)
}

// bindingError renders a 422 with per-field messages, mirroring the
// {message, errors: {field: [messages]}} payload the client expects.
func bindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			name := fieldName(fe)
			fields[name] = append(fields[name], validationMessage(fe))
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "The given data was invalid.",
			"errors":  fields,
		})
		return
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": "The given data was invalid.",
		"errors":  gin.H{},
	})
}

func fieldName(fe validator.FieldError) string {
	// StructNamespace looks like "createCellarItemRequest.Bottle.Name";
	// drop the request type and snake-case the rest.
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = toSnake(p)
	}
	return strings.Join(parts, ".")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email format."
	case "min":
		return "Value is below the allowed minimum."
	case "max":
		return "Value exceeds the allowed maximum."
	case "gte":
		return "Value is below the allowed minimum."
	case "lte":
		return "Value exceeds the allowed maximum."
	case "gtefield":
		return "Value must not precede the related field."
	case "eqfield":
		return "Fields do not match."
	default:
		return "Invalid value."
	}
}

// itemError maps the cellar service's ownership sentinels onto HTTP statuses:
// 404 when the row does not exist, 403 when it belongs to another user.
func itemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Cellar item not found."})
	case errors.Is(err, service.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Comment not found."})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"message": "This action is unauthorized."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
	}
}
