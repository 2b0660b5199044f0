package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"terracred/hedera"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("hederaid", func(fl validator.FieldLevel) bool {
		_, err := hedera.ParseAccountID(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("uintstr", func(fl validator.FieldLevel) bool {
		_, err := hedera.ParseAmount(fl.Field().String())
		return err == nil
	})
	return v
}

// Check validates struct tags and returns field -> message, or nil when valid
func Check(req any) map[string]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required!", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s!", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s!", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s!", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address!", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long!", field, fe.Param())
	case "hederaid":
		return fmt.Sprintf("%s must be a Hedera account id like 0.0.12345!", field)
	case "uintstr":
		return fmt.Sprintf("%s must be a positive whole number!", field)
	default:
		return fmt.Sprintf("%s is invalid!", field)
	}
}
