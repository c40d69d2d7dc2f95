package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(useJSONTagNames)
	return v
}

func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// validationReason переводит первую ошибку валидации в причину для клиента.
func validationReason(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request payload"
	}

	fe := verrs[0]
	switch fe.Field() {
	case "username":
		return "Username is required"
	case "fullname":
		return "Full name is required"
	case "lastname":
		return "Last name is required"
	case "email":
		return "Invalid email format"
	case "phone_number":
		switch fe.Tag() {
		case "numeric":
			return "Phone must be numbers only"
		case "len":
			return "Phone number must be equal to 10 digits"
		default:
			return "Phone number is required"
		}
	case "password":
		return "Password must be at least 6 characters"
	}
	return "invalid value for " + fe.Field()
}
