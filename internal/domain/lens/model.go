package lens

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resource - имя коллекции линз в REST API
const Resource = "lenses"

func init() {
	// Оптические силы и цены сервер отдает числами, а не строками.
	decimal.MarshalJSONWithoutQuotes = true
}

// Lens - запись складского учета линз в том виде, в каком ее отдает API
type Lens struct {
	ID           int64           `json:"id"`
	LensType     Type            `json:"lens_type"`
	Sphere       decimal.Decimal `json:"sphere"`
	Cylinder     decimal.Decimal `json:"cylinder"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	StorageLimit *int            `json:"storage_limit"`
	Comment      *string         `json:"comment"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    *time.Time      `json:"deleted_at,omitempty"`
}

// CommentPreview возвращает комментарий, обрезанный до limit рун с многоточием.
func (l *Lens) CommentPreview(limit int) string {
	if l.Comment == nil {
		return ""
	}
	runes := []rune(*l.Comment)
	if len(runes) <= limit {
		return *l.Comment
	}
	return string(runes[:limit]) + "…"
}

// Unbounded сообщает, что для позиции не задан лимит хранения.
func (l *Lens) Unbounded() bool {
	return l.StorageLimit == nil
}

// Value возвращает стоимость остатка: цена * количество.
func (l *Lens) Value() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
