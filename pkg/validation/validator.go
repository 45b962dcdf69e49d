// Package validation envuelve go-playground/validator con los nombres de campo del tag json.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Struct valida v con sus tags `validate` y devuelve los errores por campo
// (clave = ruta json del campo, valor = mensaje). nil si es válido.
func Struct(v any) map[string]string {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fieldPath(fe)] = message(fe)
	}
	return out
}

// IsUUID indica si s es un UUID (misma regla que el tag `uuid`).
func IsUUID(s string) bool {
	return instance().Var(s, "uuid") == nil
}

// fieldPath quita el nombre del struct raíz: "DiscountRequest.targets[0].id" -> "targets[0].id".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "uuid", "uuid4":
		return "debe ser un UUID"
	case "oneof":
		return fmt.Sprintf("debe ser uno de: %s", fe.Param())
	case "gt":
		return fmt.Sprintf("debe ser mayor que %s", fe.Param())
	case "gtfield":
		return fmt.Sprintf("debe ser posterior a %s", toSnake(fe.Param()))
	case "min":
		return fmt.Sprintf("mínimo %s", fe.Param())
	case "max":
		return fmt.Sprintf("máximo %s", fe.Param())
	case "email":
		return "debe ser un email válido"
	default:
		return fe.Tag()
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
