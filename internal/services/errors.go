package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"bookmyflower/internal/repositories"

	"github.com/go-playground/validator/v10"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("not found")
	ErrDuplicateKey          = errors.New("already exists")
	ErrInvalidStatus         = errors.New("invalid status")
	ErrInvalidPincodeFormat  = errors.New("pincode must be exactly 6 digits")
	ErrPincodeNotServiceable = errors.New("pincode is not serviceable")
	ErrCouponNotApplicable   = errors.New("coupon is not applicable")
	ErrInvalidTransition     = errors.New("status transition not allowed")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidToken          = errors.New("invalid token")
)

// ValidationError names the first request field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags and converts the first failure into a
// ValidationError carrying the JSON path of the field.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return newValidationError("", err.Error())
	}

	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "email":
		msg = "must be a valid email address"
	case "min":
		msg = fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		msg = fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		msg = fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		msg = fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		msg = fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		msg = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
	return newValidationError(field, msg)
}

// translateRepoError lifts repository sentinels into the service taxonomy.
func translateRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, repositories.ErrDuplicateKey):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	default:
		return err
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
