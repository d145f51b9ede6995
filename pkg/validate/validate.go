package validate

import (
	"github.com/go-playground/validator/v10"
)

// instancia única del validador (es thread-safe y cachea metadatos de structs)
var v = validator.New()

// Struct valida un DTO según sus tags `validate`. Devuelve el error del
// validador o nil.
func Struct(s interface{}) error {
	return v.Struct(s)
}

// FirstError devuelve el primer error de validación en forma legible, o ""
// si err es nil.
func FirstError(err error) string {
	if err == nil {
		return ""
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		return fe.Field() + " no cumple la regla '" + fe.Tag() + "'"
	}
	return err.Error()
}
