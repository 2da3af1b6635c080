package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

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
	return v
}

// validateRequest runs the struct's validate tags and converts every failure
// into a FieldError. messages overrides the default text by "field.tag".
func validateRequest(req interface{}, messages map[string]string) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = defaultMessage(fe)
		}
		fields = append(fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return &ValidationError{Fields: fields}
}

func defaultMessage(fe validator.FieldError) string {
	name := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", name, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s field must be greater than %s.", name, fe.Param())
	case "min":
		return fmt.Sprintf("The %s field must be at least %s.", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", name)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", name)
	}
	return fmt.Sprintf("The %s field is invalid.", name)
}
