package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	webhookDateLayout = "2006-01-02 15:04:05"
	dateLayout        = "2006-01-02"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// amount: any decimal string
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		_, err := decimal.NewFromString(fl.Field().String())
		return err == nil
	})

	// positive_amount: decimal string greater than zero
	_ = v.RegisterValidation("positive_amount", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive()
	})

	return v
}

// Validate checks a request DTO against its struct tags and reports the
// first failing field by its JSON name.
func Validate(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err
	}

	fe := validationErrors[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "amount":
		return fmt.Errorf("%s must be a valid number", fe.Field())
	case "positive_amount":
		return fmt.Errorf("%s must be a positive number", fe.Field())
	case "datetime":
		return fmt.Errorf("%s must be in format '%s'", fe.Field(), fe.Param())
	case "iso4217":
		return fmt.Errorf("%s must be an ISO 4217 currency code", fe.Field())
	case "e164":
		return fmt.Errorf("%s must be an E.164 phone number", fe.Field())
	default:
		return fmt.Errorf("%s failed '%s' validation", fe.Field(), fe.Tag())
	}
}
