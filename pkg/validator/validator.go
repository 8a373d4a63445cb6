// Package validator provides struct validation utilities with custom validators.
package validator

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tendant/nexuspoint/pkg/domain"
)

// quantityRegex validates stock quantities: up to three fractional digits.
var quantityRegex = regexp.MustCompile(`^\d{1,9}(?:\.\d{1,3})?$`)

// Validator wraps the go-playground validator with custom validations.
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a single field validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, e := range v {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return sb.String()
}

// New creates a new Validator with custom validators registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("slug", validateSlug)
	_ = v.RegisterValidation("invitable_role", validateInvitableRole)
	_ = v.RegisterValidation("money", validateMoney)
	_ = v.RegisterValidation("quantity", validateQuantity)
	_ = v.RegisterValidation("platform", validatePlatform)
	_ = v.RegisterValidation("order_source", validateOrderSource)
	_ = v.RegisterValidation("order_status", validateOrderStatus)

	return &Validator{validate: v}
}

// Validate validates a struct and returns ValidationErrors if validation fails.
func (v *Validator) Validate(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return err
	}

	result := make(ValidationErrors, 0, len(validationErrors))
	for _, e := range validationErrors {
		result = append(result, ValidationError{
			Field:   e.Field(),
			Message: formatErrorMessage(e),
		})
	}

	return result
}

// stringValue returns the field as a string, dereferencing pointers.
// ok is false for nil pointers, which are left to 'required'.
func stringValue(fl validator.FieldLevel) (string, bool) {
	field := fl.Field()
	if field.Kind() == reflect.Pointer {
		if field.IsNil() {
			return "", false
		}
		field = field.Elem()
	}
	value := field.String()
	return value, value != ""
}

// validateSlug validates that a string is a valid organization slug.
// Examples: "golden-pad-thai", "team123"
func validateSlug(fl validator.FieldLevel) bool {
	value, ok := stringValue(fl)
	if !ok {
		return true
	}
	return domain.ValidSlug(value)
}

// validateInvitableRole accepts roles that can be granted by invitation.
func validateInvitableRole(fl validator.FieldLevel) bool {
	value, ok := stringValue(fl)
	if !ok {
		return true
	}
	return domain.Role(value).Invitable()
}

// validateMoney validates a non-negative amount with at most two decimals.
func validateMoney(fl validator.FieldLevel) bool {
	value, ok := stringValue(fl)
	if !ok {
		return true
	}
	return domain.IsValidAmount(value)
}

func validateQuantity(fl validator.FieldLevel) bool {
	value, ok := stringValue(fl)
	if !ok {
		return true
	}
	return quantityRegex.MatchString(value)
}

func validatePlatform(fl validator.FieldLevel) bool {
	value, ok := stringValue(fl)
	if !ok {
		return true
	}
	return domain.Platform(value).IsValid()
}

func validateOrderSource(fl validator.FieldLevel) bool {
	value, ok := stringValue(fl)
	if !ok {
		return true
	}
	return domain.OrderSource(value).IsValid()
}

func validateOrderStatus(fl validator.FieldLevel) bool {
	value, ok := stringValue(fl)
	if !ok {
		return true
	}
	return domain.OrderStatus(value).IsValid()
}

func formatErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "slug":
		return "must contain only lowercase letters, numbers and single hyphens"
	case "invitable_role":
		return "must be one of: admin, member"
	case "money":
		return "must be an amount from 0 to 99999999.99 with at most 2 decimal places"
	case "quantity":
		return "must be a non-negative number with at most 3 decimal places"
	case "platform":
		return fmt.Sprintf("must be one of: %s", formatPlatforms())
	case "order_source":
		return "must be one of: pos, grab, wongnai, lineman"
	case "order_status":
		return "must be one of: pending, accepted, preparing, ready, completed, cancelled"
	case "dive":
		return "contains invalid items"
	default:
		return fmt.Sprintf("failed on '%s' validation", e.Tag())
	}
}

func formatPlatforms() string {
	strs := make([]string, len(domain.Platforms))
	for i, p := range domain.Platforms {
		strs[i] = string(p)
	}
	return strings.Join(strs, ", ")
}
