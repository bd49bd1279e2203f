package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Echo compatible validator. Validation errors report the wire name of the
// offending field (param tag first, then json tag) rather than the Go name.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	return cv.validator.Struct(i)
}

func Create() CustomValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(wireName)

	return CustomValidator{validator: validate}
}

func wireName(field reflect.StructField) string {
	paramName := strings.SplitN(field.Tag.Get("param"), ",", 2)[0]
	if paramName != "" {
		return paramName
	}

	jsonName := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if jsonName == "-" {
		return ""
	}
	if jsonName == "-," {
		return "-"
	}
	return jsonName
}
