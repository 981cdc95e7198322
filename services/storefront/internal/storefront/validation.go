package storefront

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/appetiteclub/storefront/pkg/enums/category"
	"github.com/appetiteclub/storefront/pkg/enums/paymentmethod"
	"github.com/go-playground/validator/v10"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return category.ByName(fl.Field().String()) != nil
	})
	_ = v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
		return paymentmethod.ByName(fl.Field().String()) != nil
	})

	return v
}

// ValidateStruct runs the struct tag rules and reports failures per field.
func ValidateStruct(s any) []ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fieldPath(fe),
			Message: messageFor(fe),
		})
	}
	return out
}

// fieldPath drops the root struct name from the namespace, so nested
// fields read as items[0].quantity.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s cannot be less than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "ne":
		return fmt.Sprintf("%s cannot be %s", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "datetime":
		return fmt.Sprintf("%s must use the format %s", field, fe.Param())
	case "category":
		return field + " must be one of " + categoryNames()
	case "paymentmethod":
		return field + " must be cod or online"
	}
	return field + " is invalid"
}

func categoryNames() string {
	names := make([]string, len(category.All))
	for i, c := range category.All {
		names[i] = c.Label()
	}
	return strings.Join(names, ", ")
}
