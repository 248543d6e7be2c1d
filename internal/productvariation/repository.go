package productvariation

import (
	"context"

	"github.com/mercata/catalog-engine/internal/model"
)

type Repository interface {
	Create(ctx context.Context, item model.ProductVariationItem) error
	Update(ctx context.Context, item model.ProductVariationItem) error
	Delete(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]model.ProductVariationItem, error)
	FindByID(ctx context.Context, id string) (*model.ProductVariationItem, error)
	// FindByProduct returns the product's variants in creation order.
	FindByProduct(ctx context.Context, sku string) ([]model.ProductVariationItem, error)
	// CountUsagesOfVariation backs the variation deletion guard.
	CountUsagesOfVariation(ctx context.Context, variationID string) (int, error)
	// Search matches a case-insensitive substring against the product SKU.
	Search(ctx context.Context, query string) ([]model.ProductVariationItem, error)

	ValidateForCreation(ctx context.Context, item model.ProductVariationItem) error
	ValidateForUpdate(ctx context.Context, item model.ProductVariationItem) error
	ValidateForDeletion(ctx context.Context, id string) ([]string, error)
}
