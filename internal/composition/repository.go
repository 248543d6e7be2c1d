package composition

import (
	"context"

	"github.com/mercata/catalog-engine/internal/model"
)

type Repository interface {
	Create(ctx context.Context, item model.CompositionItem) error
	Update(ctx context.Context, item model.CompositionItem) error
	Delete(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]model.CompositionItem, error)
	FindByID(ctx context.Context, id string) (*model.CompositionItem, error)
	// FindByParent matches the exact parent key, bare or variation-scoped.
	FindByParent(ctx context.Context, parentKey string) ([]model.CompositionItem, error)
	// FindByBaseSKU matches every parent key addressing the SKU, across the
	// product itself and all of its variations.
	FindByBaseSKU(ctx context.Context, sku string) ([]model.CompositionItem, error)
	CountByChild(ctx context.Context, childSKU string) (int, error)
	DeleteByParent(ctx context.Context, parentKey string) (int, error)
	// Search matches a case-insensitive substring against the parent key
	// and the child SKU.
	Search(ctx context.Context, query string) ([]model.CompositionItem, error)

	ValidateForCreation(ctx context.Context, item model.CompositionItem) error
	ValidateForUpdate(ctx context.Context, item model.CompositionItem) error
	ValidateForDeletion(ctx context.Context, id string) ([]string, error)
}
