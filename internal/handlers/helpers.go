package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"highway/internal/models"
)

// более устойчиво к типам (int / int64 / float64 / string)
func getIntFromCtx(c *gin.Context, key string) (int, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// jsonFieldName — "FirstName" -> "firstName", под имена полей в JSON-теле.
func jsonFieldName(structField string) string {
	if structField == "" {
		return structField
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}

func validationMessage(fe validator.FieldError) string {
	field := jsonFieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is empty"
	case "email":
		return "email is invalid"
	case "min":
		return field + " should contain at-least " + fe.Param() + " characters"
	case "len":
		return field + " must be exactly " + fe.Param() + " characters long."
	default:
		return field + " is not valid."
	}
}

// bindJSON — биндим тело; ошибки валидатора превращаем в 422 со списком
// {field, message}, остальные ошибки разбора — 400. Возвращает false, если
// ответ уже отправлен.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fieldErrs := make([]models.FieldError, 0, len(verrs))
			for _, fe := range verrs {
				fieldErrs = append(fieldErrs, models.FieldError{
					Field:   jsonFieldName(fe.Field()),
					Message: validationMessage(fe),
				})
			}
			respondValidation(c, fieldErrs...)
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// respondValidation — единый формат 422.
func respondValidation(c *gin.Context, errs ...models.FieldError) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": "Validation Error",
		"errors":  errs,
	})
}
