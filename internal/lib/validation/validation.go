// Package validation собирает валидатор запросов с дополнительными тегами.
package validation

import (
	"time"

	"github.com/go-playground/validator"
)

// New возвращает валидатор с зарегистрированным тегом datetime=<layout>.
func New() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("datetime", isDatetime); err != nil {
		panic(err)
	}
	return v
}

func isDatetime(fl validator.FieldLevel) bool {
	_, err := time.Parse(fl.Param(), fl.Field().String())
	return err == nil
}
