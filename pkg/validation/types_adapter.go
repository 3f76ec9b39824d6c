package validation

import (
	"reflect"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
)

// registerNullTypes учит валидатор смотреть внутрь null.* типов.
// Невалидное значение отдаётся как nil-указатель (срабатывает omitnil),
// валидное - как указатель на значение, так что пустая строка
// проверяется правилами поля.
func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.String); ok && val.Valid {
			return &val.String
		}
		return (*string)(nil)
	}, null.String{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Int); ok && val.Valid {
			return &val.Int
		}
		return (*int)(nil)
	}, null.Int{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Float64); ok && val.Valid {
			return &val.Float64
		}
		return (*float64)(nil)
	}, null.Float64{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Bool); ok && val.Valid {
			return &val.Bool
		}
		return (*bool)(nil)
	}, null.Bool{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Time); ok && val.Valid {
			return &val.Time
		}
		return (*time.Time)(nil)
	}, null.Time{})
}
