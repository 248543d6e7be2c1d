package product

import (
	"context"

	"github.com/mercata/catalog-engine/internal/model"
	"github.com/mercata/catalog-engine/internal/product/dto"
)

// Cascade op entities, in deletion order: innermost rows first so a
// partial failure never leaves a visible orphan.
const (
	CascadeCompositionItem  = "composition_item"
	CascadeProductVariation = "product_variation"
	CascadeProduct          = "product"
)

// CascadeOp is one step of a product deletion plan. Delete returns the
// completed prefix of the plan so callers can reconcile after a partial
// failure; the store has no multi-key transactions.
type CascadeOp struct {
	Entity string
	ID     string // item ID, or the SKU for the product op
}

type Repository interface {
	Create(ctx context.Context, p model.Product) error
	Update(ctx context.Context, p model.Product) error
	// Delete cascades: composition items under the bare SKU and under every
	// variation key first, then product variation records, then the product.
	Delete(ctx context.Context, sku string) ([]CascadeOp, error)
	FindAll(ctx context.Context) ([]model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	Search(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error)

	ValidateForCreation(ctx context.Context, p model.Product) error
	ValidateForUpdate(ctx context.Context, p model.Product) error
	// ValidateForDeletion returns blocking reasons, empty when deletable.
	ValidateForDeletion(ctx context.Context, sku string) ([]string, error)
}
