package fakeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"lensadmin/internal/domain/lens"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"
)

// readOnlyFields запрещены в теле PUT: бэкенд не принимает лишние поля.
var readOnlyFields = []string{"id", "created_at", "updated_at", "deleted_at"}

type createPayload struct {
	ID           int64           `json:"id"`
	LensType     lens.Type       `json:"lens_type"`
	Sphere       decimal.Decimal `json:"sphere"`
	Cylinder     decimal.Decimal `json:"cylinder"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     *int            `json:"quantity"`
	StorageLimit *int            `json:"storage_limit"`
	Comment      *string         `json:"comment"`
}

func (s *Server) list(_ context.Context, input *listInput) (*listOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := parseQuery(input)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	items, total := q.apply(s.sorted())

	out := &listOutput{Body: items}
	if !s.omitTotal {
		out.TotalCount = strconv.Itoa(total)
	}
	return out, nil
}

func (s *Server) find(_ context.Context, input *findInput) (*output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lenses[input.ID]
	if !ok || l.DeletedAt != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("Product with ID %d not found", input.ID))
	}
	return &output{Body: l}, nil
}

func (s *Server) create(_ context.Context, input *createInput) (*output, error) {
	var p createPayload
	if err := json.Unmarshal(input.RawBody, &p); err != nil {
		return nil, huma.Error422UnprocessableEntity("malformed lens", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.lenses[p.ID]; ok && existing.DeletedAt == nil {
		return nil, huma.Error403Forbidden(fmt.Sprintf("Lens with id %d already exists", p.ID))
	}

	now := s.now()
	l := lens.Lens{
		ID:           p.ID,
		LensType:     p.LensType,
		Sphere:       p.Sphere,
		Cylinder:     p.Cylinder,
		UnitPrice:    p.UnitPrice,
		StorageLimit: p.StorageLimit,
		Comment:      p.Comment,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if p.Quantity != nil {
		l.Quantity = *p.Quantity
	}
	s.lenses[l.ID] = l

	return &output{Body: l}, nil
}

func (s *Server) update(_ context.Context, input *updateInput) (*output, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(input.RawBody, &fields); err != nil {
		return nil, huma.Error422UnprocessableEntity("malformed lens", err)
	}
	for _, name := range readOnlyFields {
		if _, ok := fields[name]; ok {
			return nil, huma.Error422UnprocessableEntity(fmt.Sprintf("field %s is not editable", name))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lenses[input.ID]
	if !ok || l.DeletedAt != nil {
		return nil, huma.Error403Forbidden(fmt.Sprintf("Product with ID %d not found", input.ID))
	}

	// Поля без ключа не меняются, как в exclude_unset на бэкенде.
	delete(fields, "update_notes")
	delete(fields, "update_source")
	current, err := json.Marshal(l)
	if err != nil {
		return nil, huma.Error500InternalServerError("encode lens", err)
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(current, &merged); err != nil {
		return nil, huma.Error500InternalServerError("decode lens", err)
	}
	for k, v := range fields {
		merged[k] = v
	}
	data, err := json.Marshal(merged)
	if err != nil {
		return nil, huma.Error500InternalServerError("encode lens", err)
	}

	var updated lens.Lens
	if err := json.Unmarshal(data, &updated); err != nil {
		return nil, huma.Error422UnprocessableEntity("malformed lens", err)
	}
	updated.UpdatedAt = s.now()
	s.lenses[updated.ID] = updated

	return &output{Body: updated}, nil
}
