package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CategoryRepository interface {
	Create(ctx context.Context, c model.Category) (model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	List(ctx context.Context, activeOnly bool) ([]model.Category, error)
}
