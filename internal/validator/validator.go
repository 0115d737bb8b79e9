package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"storefront/internal/usecase"

	playground "github.com/go-playground/validator/v10"
)

// RequestValidator は echo.Validator を満たす。c.Validate(&req) から呼ばれる
type RequestValidator struct {
	v *playground.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{v: newValidate()}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.v.Struct(i); err != nil {
		return toValidationError(err)
	}
	return nil
}

// エラーメッセージはjsonのフィールド名で出す
func newValidate() *playground.Validate {
	v := playground.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// 最初の1件だけを VALIDATION_ERROR にする
func toValidationError(err error) error {
	var ves playground.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return usecase.ValidationError("invalid request")
	}

	fe := ves[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return usecase.ValidationError(fmt.Sprintf("%s is required", field))
	case "email":
		return usecase.ValidationError(fmt.Sprintf("%s must be a valid email", field))
	case "min":
		return usecase.ValidationError(fmt.Sprintf("%s must be at least %s", field, fe.Param()))
	case "max":
		return usecase.ValidationError(fmt.Sprintf("%s must be at most %s", field, fe.Param()))
	case "gt", "gte", "lt", "lte":
		return usecase.ValidationError(fmt.Sprintf("%s is out of range", field))
	}
	return usecase.ValidationError(fmt.Sprintf("%s is invalid", field))
}
