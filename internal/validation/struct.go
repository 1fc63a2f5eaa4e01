package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"inkwell/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report json field names so messages match the request body.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Struct validates s against its `validate` tags and returns the first
// failure as an *models.AppError.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return models.NewInternalError(err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return models.NewMissingFieldError(fe.Field())
	case "max":
		limit, convErr := strconv.Atoi(fe.Param())
		if convErr != nil {
			return models.NewValidationError(fmt.Sprintf("'%s' is too long", fe.Field()))
		}
		return models.NewFieldTooLongError(fe.Field(), limit)
	case "email":
		return models.NewValidationError("invalid email format")
	default:
		return models.NewValidationError(fmt.Sprintf("'%s' failed the '%s' rule", fe.Field(), fe.Tag()))
	}
}
