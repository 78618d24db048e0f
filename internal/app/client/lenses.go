package client

import (
	"context"
	"fmt"
	"strconv"

	"lensadmin/internal/dataprovider"
	"lensadmin/internal/domain/lens"
)

// ListLenses запрашивает страницу линз у API.
func (a *App) ListLenses(ctx context.Context, params dataprovider.ListParams) (*dataprovider.ListResult[lens.Lens], error) {
	res, err := a.lenses.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка линз: %w", err)
	}
	return res, nil
}

func (a *App) GetLens(ctx context.Context, id int64) (*lens.Lens, error) {
	l, err := a.lenses.Get(ctx, strconv.FormatInt(id, 10))
	if err != nil {
		return nil, fmt.Errorf("ошибка получения линзы %d: %w", id, err)
	}
	return l, nil
}

// CreateLens собирает тело запроса из формы, проверяет его и создает линзу.
func (a *App) CreateLens(ctx context.Context, form lens.Form) (*lens.Lens, error) {
	req, err := form.CreateRequest()
	if err != nil {
		return nil, err
	}
	if err := a.validator.ValidateCreate(req); err != nil {
		return nil, err
	}

	created, err := a.lenses.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания линзы %d: %w", req.ID, err)
	}

	a.log.Info("Линза создана", "id", created.ID, "lens_type", created.LensType)
	return created, nil
}

// UpdateLens получает текущую запись, накладывает изменения и отправляет только редактируемые поля.
func (a *App) UpdateLens(ctx context.Context, id int64, patch lens.Patch) (*lens.Lens, error) {
	current, err := a.GetLens(ctx, id)
	if err != nil {
		return nil, err
	}

	req, err := lens.EditableFrom(*current).Apply(patch)
	if err != nil {
		return nil, err
	}
	if err := a.validator.ValidateUpdate(req); err != nil {
		return nil, err
	}

	updated, err := a.lenses.Update(ctx, strconv.FormatInt(id, 10), req)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления линзы %d: %w", id, err)
	}

	a.log.Info("Линза обновлена", "id", id)
	return updated, nil
}

// DeleteLens всегда завершается ошибкой dataprovider.ErrNotImplemented: API не поддерживает удаление.
func (a *App) DeleteLens(ctx context.Context, id int64) error {
	if err := a.lenses.Delete(ctx, strconv.FormatInt(id, 10)); err != nil {
		return fmt.Errorf("ошибка удаления линзы %d: %w", id, err)
	}
	return nil
}
