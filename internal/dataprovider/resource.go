package dataprovider

import (
	"context"
	"encoding/json"
	"fmt"
)

// ListResult - декодированная страница записей
type ListResult[T any] struct {
	Data       []T
	Total      int64
	TotalKnown bool
}

// DataProvider - операции, нужные Resource; реализуется *Provider.
type DataProvider interface {
	List(ctx context.Context, resource string, params ListParams) (*RawList, error)
	GetOne(ctx context.Context, resource, id string) (json.RawMessage, error)
	Create(ctx context.Context, resource string, payload any) (json.RawMessage, error)
	Update(ctx context.Context, resource, id string, payload any) (json.RawMessage, error)
	Delete(ctx context.Context, resource, id string) error
}

// Resource привязывает DataProvider к одному ресурсу и декодирует записи в T.
type Resource[T any] struct {
	provider DataProvider
	name     string
}

func NewResource[T any](provider DataProvider, name string) *Resource[T] {
	return &Resource[T]{provider: provider, name: name}
}

func (r *Resource[T]) Name() string {
	return r.name
}

func (r *Resource[T]) List(ctx context.Context, params ListParams) (*ListResult[T], error) {
	raw, err := r.provider.List(ctx, r.name, params)
	if err != nil {
		return nil, err
	}

	result := &ListResult[T]{
		Data:       make([]T, 0, len(raw.Data)),
		Total:      raw.Total,
		TotalKnown: raw.TotalKnown,
	}
	for i, item := range raw.Data {
		var rec T
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, fmt.Errorf("ошибка декодирования записи %s #%d: %w", r.name, i, err)
		}
		result.Data = append(result.Data, rec)
	}
	return result, nil
}

func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	raw, err := r.provider.GetOne(ctx, r.name, id)
	if err != nil {
		return nil, err
	}
	return decodeOne[T](r.name, raw)
}

func (r *Resource[T]) Create(ctx context.Context, payload any) (*T, error) {
	raw, err := r.provider.Create(ctx, r.name, payload)
	if err != nil {
		return nil, err
	}
	return decodeOne[T](r.name, raw)
}

func (r *Resource[T]) Update(ctx context.Context, id string, payload any) (*T, error) {
	raw, err := r.provider.Update(ctx, r.name, id, payload)
	if err != nil {
		return nil, err
	}
	return decodeOne[T](r.name, raw)
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.provider.Delete(ctx, r.name, id)
}

func decodeOne[T any](name string, raw json.RawMessage) (*T, error) {
	var rec T
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("ошибка декодирования записи %s: %w", name, err)
	}
	return &rec, nil
}
