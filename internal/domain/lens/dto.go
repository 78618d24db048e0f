package lens

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Form - сырые значения полей формы создания, как их отдают флаги или ввод пользователя
type Form struct {
	ID           string
	LensType     string
	Sphere       string
	Cylinder     string
	UnitPrice    string
	Quantity     string
	StorageLimit string
	Comment      string
}

// CreateRequest - тело POST /lenses
type CreateRequest struct {
	ID           int64           `json:"id" validate:"gte=0"`
	LensType     Type            `json:"lens_type" validate:"required"`
	Sphere       decimal.Decimal `json:"sphere"`
	Cylinder     decimal.Decimal `json:"cylinder"`
	UnitPrice    string          `json:"unit_price" validate:"required,price"`
	Quantity     int             `json:"quantity" validate:"gte=0"`
	StorageLimit *int            `json:"storage_limit" validate:"omitempty,gte=0"`
	Comment      string          `json:"comment"`
}

// UpdateRequest - тело PUT /lenses/{id}.
// Содержит только редактируемые поля: id и временные метки сервер не принимает.
type UpdateRequest struct {
	LensType     Type            `json:"lens_type" validate:"required"`
	Sphere       decimal.Decimal `json:"sphere"`
	Cylinder     decimal.Decimal `json:"cylinder"`
	UnitPrice    decimal.Decimal `json:"unit_price" validate:"gte=0"`
	Quantity     int             `json:"quantity" validate:"gte=0"`
	StorageLimit *int            `json:"storage_limit" validate:"omitempty,gte=0"`
	Comment      *string         `json:"comment"`
	UpdateNotes  string          `json:"update_notes,omitempty"`
	UpdateSource string          `json:"update_source,omitempty"`
}

// Patch - изменения, которые пользователь хочет внести в запись.
// nil означает "поле не трогать", пустая строка в StorageLimit/Comment - очистить.
type Patch struct {
	LensType     *string
	Sphere       *string
	Cylinder     *string
	UnitPrice    *string
	Quantity     *string
	StorageLimit *string
	Comment      *string
	Notes        string
	Source       string
}

// CreateRequest собирает тело запроса из формы:
// цена округляется до копеек строкой, пустое количество - 0, пустой лимит - null.
func (f Form) CreateRequest() (CreateRequest, error) {
	var req CreateRequest

	id := strings.TrimSpace(f.ID)
	if id == "" {
		return req, ErrMissingID
	}
	parsedID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return req, fmt.Errorf("%w: id: %v", ErrInvalidForm, err)
	}
	req.ID = parsedID
	req.LensType = Type(strings.TrimSpace(f.LensType))

	if req.Sphere, err = parseDecimal("sphere", f.Sphere); err != nil {
		return req, err
	}
	if req.Cylinder, err = parseDecimal("cylinder", f.Cylinder); err != nil {
		return req, err
	}

	price, err := parseDecimal("unit_price", f.UnitPrice)
	if err != nil {
		return req, err
	}
	req.UnitPrice = price.StringFixed(2)

	if req.Quantity, err = parseQuantity(f.Quantity); err != nil {
		return req, err
	}
	if req.StorageLimit, err = parseLimit(f.StorageLimit); err != nil {
		return req, err
	}
	req.Comment = f.Comment

	return req, nil
}

// EditableFrom переносит редактируемые поля полученной записи в тело PUT.
func EditableFrom(l Lens) UpdateRequest {
	return UpdateRequest{
		LensType:     l.LensType,
		Sphere:       l.Sphere,
		Cylinder:     l.Cylinder,
		UnitPrice:    l.UnitPrice,
		Quantity:     l.Quantity,
		StorageLimit: l.StorageLimit,
		Comment:      l.Comment,
	}
}

// Apply накладывает изменения на тело запроса.
func (r UpdateRequest) Apply(p Patch) (UpdateRequest, error) {
	if p.Empty() {
		return r, ErrNoChanges
	}

	var err error
	if p.LensType != nil {
		r.LensType = Type(strings.TrimSpace(*p.LensType))
	}
	if p.Sphere != nil {
		if r.Sphere, err = parseDecimal("sphere", *p.Sphere); err != nil {
			return r, err
		}
	}
	if p.Cylinder != nil {
		if r.Cylinder, err = parseDecimal("cylinder", *p.Cylinder); err != nil {
			return r, err
		}
	}
	if p.UnitPrice != nil {
		if r.UnitPrice, err = parseDecimal("unit_price", *p.UnitPrice); err != nil {
			return r, err
		}
	}
	if p.Quantity != nil {
		if r.Quantity, err = parseQuantity(*p.Quantity); err != nil {
			return r, err
		}
	}
	if p.StorageLimit != nil {
		if r.StorageLimit, err = parseLimit(*p.StorageLimit); err != nil {
			return r, err
		}
	}
	if p.Comment != nil {
		if *p.Comment == "" {
			r.Comment = nil
		} else {
			comment := *p.Comment
			r.Comment = &comment
		}
	}
	r.UpdateNotes = p.Notes
	r.UpdateSource = p.Source

	return r, nil
}

// Empty сообщает, что ни одно редактируемое поле не задано.
func (p Patch) Empty() bool {
	return p.LensType == nil && p.Sphere == nil && p.Cylinder == nil && p.UnitPrice == nil &&
		p.Quantity == nil && p.StorageLimit == nil && p.Comment == nil
}

func parseDecimal(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: %s is required", ErrInvalidForm, field)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", ErrInvalidForm, field, err)
	}
	return d, nil
}

func parseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	q, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: quantity: %v", ErrInvalidForm, err)
	}
	return q, nil
}

func parseLimit(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: storage_limit: %v", ErrInvalidForm, err)
	}
	return &limit, nil
}
