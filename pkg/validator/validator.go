package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/consultation-booking-service/pkg/types"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// В ошибках используем имена полей из json тегов
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Время суток HH:MM
	_ = validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := types.NewTimeStringFromString(fl.Field().String())
		return err == nil
	})
}

// Validate проверяет структуру и возвращает ошибки по полям.
// nil означает, что структура корректна.
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"": "некорректные данные"}
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		fields[fe.Field()] = message(fe)
	}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "gt":
		return "значение должно быть больше " + fe.Param()
	case "max":
		return "не длиннее " + fe.Param() + " символов"
	case "datetime":
		return "ожидается дата в формате YYYY-MM-DD"
	case "hhmm":
		return "ожидается время в формате HH:MM"
	case "oneof":
		return "допустимые значения: " + fe.Param()
	default:
		return "некорректное значение"
	}
}
