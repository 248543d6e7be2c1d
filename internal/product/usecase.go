package product

import (
	"context"

	"github.com/mercata/catalog-engine/internal/model"
	"github.com/mercata/catalog-engine/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, sku string) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	SearchProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, sku string) ([]CascadeOp, error)

	// Composition ops
	AddComponent(ctx context.Context, input *dto.AddComponentInput) (*model.CompositionItem, error)
	ListComponents(ctx context.Context, parentKey string) ([]model.CompositionItem, error)
	RemoveComponent(ctx context.Context, id string) error

	// Variant ops
	AddVariant(ctx context.Context, input *dto.AddVariantInput) (*model.ProductVariationItem, error)
	ListVariants(ctx context.Context, sku string) ([]model.ProductVariationItem, error)
	RemoveVariant(ctx context.Context, id string) error
}
