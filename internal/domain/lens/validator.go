package lens

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator проверяет тела запросов перед отправкой на сервер
type Validator struct {
	validate *validator.Validate
}

// NewValidator создает валидатор, который называет поля по json-тегам.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Цена в теле POST уже строка с двумя знаками, проверяем ее как число.
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative()
	})

	return &Validator{validate: v}
}

// ValidateCreate проверяет тело POST.
func (v *Validator) ValidateCreate(req CreateRequest) error {
	return v.check(req)
}

// ValidateUpdate проверяет тело PUT.
func (v *Validator) ValidateUpdate(req UpdateRequest) error {
	return v.check(req)
}

func (v *Validator) check(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	details := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, e.Field()+": "+message(e))
	}
	return fmt.Errorf("%w: %s", ErrInvalidForm, strings.Join(details, "; "))
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "обязательное поле"
	case "gte":
		return "должно быть не меньше " + e.Param()
	case "price":
		return "должно быть неотрицательным числом"
	default:
		return "не прошло проверку " + e.Tag()
	}
}
