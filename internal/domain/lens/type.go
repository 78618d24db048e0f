package lens

import (
	"fmt"

	"github.com/danielgtaylor/huma/v2"
)

// Type - тип линзы (материал/индекс преломления)
type Type string

const (
	TypeCR39          Type = "CR39"
	TypePolycarbonate Type = "Polycarbonate"
	TypeTrivex        Type = "Trivex"
	TypeHighIndex167  Type = "High Index 1.67"
	TypeHighIndex174  Type = "High Index 1.74"
)

// Types перечисляет известные типы в порядке отображения в фильтрах.
var Types = []Type{
	TypeCR39,
	TypeHighIndex167,
	TypeHighIndex174,
	TypePolycarbonate,
	TypeTrivex,
}

func (Type) Schema(_ huma.Registry) *huma.Schema {
	enum := make([]any, 0, len(Types))
	for _, t := range Types {
		enum = append(enum, string(t))
	}
	return &huma.Schema{
		Type:        huma.TypeString,
		Enum:        enum,
		Description: "Тип линзы",
		Examples:    []any{string(TypeCR39)},
	}
}

// Validate проверяет, что тип входит в известный набор.
// Клиент не вызывает ее при отправке: набор типов контролирует сервер.
func (t Type) Validate() error {
	for _, known := range Types {
		if t == known {
			return nil
		}
	}
	return fmt.Errorf("неизвестный тип линзы: %q", string(t))
}

// String возвращает строковое представление типа.
func (t Type) String() string {
	return string(t)
}

// DisplayName возвращает человекочитаемое название типа.
func (t Type) DisplayName() string {
	switch t {
	case TypeCR39:
		return "CR-39 (органика)"
	case TypePolycarbonate:
		return "Поликарбонат"
	case TypeTrivex:
		return "Trivex"
	case TypeHighIndex167:
		return "Высокий индекс 1.67"
	case TypeHighIndex174:
		return "Высокий индекс 1.74"
	default:
		return string(t)
	}
}
