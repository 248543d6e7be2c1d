package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mercata/catalog-engine/internal/model"
	"github.com/mercata/catalog-engine/internal/product"
	"github.com/mercata/catalog-engine/internal/product/dto"
	"github.com/mercata/catalog-engine/internal/storage"
)

var ErrNotFound = errors.New("product not found")

// StoreRepository keeps products in the shared key-value store. Integrity
// checks and the cascade read the sibling collections directly: the store
// is denormalized and has no foreign keys, so the repository is where
// referential integrity lives.
type StoreRepository struct {
	products *storage.Collection[model.Product]
	items    *storage.Collection[model.CompositionItem]
	variants *storage.Collection[model.ProductVariationItem]
}

func NewStoreRepository(store storage.Store) *StoreRepository {
	return &StoreRepository{
		products: storage.NewCollection[model.Product](store, storage.KeyProducts),
		items:    storage.NewCollection[model.CompositionItem](store, storage.KeyCompositionItems),
		variants: storage.NewCollection[model.ProductVariationItem](store, storage.KeyProductVars),
	}
}

func (r *StoreRepository) Create(ctx context.Context, p model.Product) error {
	if err := r.ValidateForCreation(ctx, p); err != nil {
		return err
	}
	products, err := r.products.Load(ctx)
	if err != nil {
		return err
	}
	return r.products.Save(ctx, append(products, p))
}

func (r *StoreRepository) Update(ctx context.Context, p model.Product) error {
	if err := r.ValidateForUpdate(ctx, p); err != nil {
		return err
	}
	products, err := r.products.Load(ctx)
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].SKU == p.SKU {
			products[i] = p
			return r.products.Save(ctx, products)
		}
	}
	return ErrNotFound
}

// Delete computes the cascade plan first, then executes it in dependency
// order: composition items across the bare SKU and every variation key,
// then product variation records, then the product itself. On a failed
// step the completed prefix is returned alongside the error; nothing
// already deleted is restored.
func (r *StoreRepository) Delete(ctx context.Context, sku string) ([]product.CascadeOp, error) {
	reasons, err := r.ValidateForDeletion(ctx, sku)
	if err != nil {
		return nil, err
	}
	if len(reasons) > 0 {
		return nil, errors.New(strings.Join(reasons, "; "))
	}

	plan, err := r.buildCascadePlan(ctx, sku)
	if err != nil {
		return nil, err
	}

	completed := make([]product.CascadeOp, 0, len(plan))
	for _, op := range plan {
		switch op.Entity {
		case product.CascadeCompositionItem:
			err = r.removeCompositionItem(ctx, op.ID)
		case product.CascadeProductVariation:
			err = r.removeVariant(ctx, op.ID)
		case product.CascadeProduct:
			err = r.removeProduct(ctx, op.ID)
		}
		if err != nil {
			return completed, fmt.Errorf("cascade delete of %s stopped at %s %s: %w", sku, op.Entity, op.ID, err)
		}
		completed = append(completed, op)
	}
	return completed, nil
}

func (r *StoreRepository) buildCascadePlan(ctx context.Context, sku string) ([]product.CascadeOp, error) {
	var plan []product.CascadeOp
	items, err := r.items.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if model.ParentBaseSKU(item.ParentKey) == sku {
			plan = append(plan, product.CascadeOp{Entity: product.CascadeCompositionItem, ID: item.ID})
		}
	}
	variants, err := r.variants.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, v := range variants {
		if v.ProductSKU == sku {
			plan = append(plan, product.CascadeOp{Entity: product.CascadeProductVariation, ID: v.ID})
		}
	}
	plan = append(plan, product.CascadeOp{Entity: product.CascadeProduct, ID: sku})
	return plan, nil
}

func (r *StoreRepository) removeCompositionItem(ctx context.Context, id string) error {
	items, err := r.items.Load(ctx)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	return r.items.Save(ctx, kept)
}

func (r *StoreRepository) removeVariant(ctx context.Context, id string) error {
	variants, err := r.variants.Load(ctx)
	if err != nil {
		return err
	}
	kept := variants[:0]
	for _, v := range variants {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	return r.variants.Save(ctx, kept)
}

func (r *StoreRepository) removeProduct(ctx context.Context, sku string) error {
	products, err := r.products.Load(ctx)
	if err != nil {
		return err
	}
	kept := products[:0]
	for _, p := range products {
		if p.SKU != sku {
			kept = append(kept, p)
		}
	}
	return r.products.Save(ctx, kept)
}

func (r *StoreRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	return r.products.Load(ctx)
}

func (r *StoreRepository) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	products, err := r.products.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].SKU == sku {
			p := products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (r *StoreRepository) Search(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	if filters == nil {
		filters = &dto.ProductFilters{}
	}
	products, err := r.products.Load(ctx)
	if err != nil {
		return nil, err
	}
	query := strings.ToLower(strings.TrimSpace(filters.Query))
	var matched []model.Product
	for _, p := range products {
		if filters.OnlyComposite && !p.IsComposite {
			continue
		}
		if filters.OnlyVariable && !p.HasVariation {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.SKU), query) {
			continue
		}
		matched = append(matched, p)
	}
	return matched, nil
}

func (r *StoreRepository) ValidateForCreation(ctx context.Context, p model.Product) error {
	existing, err := r.FindBySKU(ctx, p.SKU)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("a product with SKU '%s' already exists", p.SKU)
	}
	return nil
}

func (r *StoreRepository) ValidateForUpdate(ctx context.Context, p model.Product) error {
	existing, err := r.FindBySKU(ctx, p.SKU)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	return nil
}

// ValidateForDeletion blocks deleting a product that other products still
// assemble from. The cascade removes rows the product owns as a parent;
// rows where it appears as a child belong to someone else and must be
// removed there first.
func (r *StoreRepository) ValidateForDeletion(ctx context.Context, sku string) ([]string, error) {
	existing, err := r.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	items, err := r.items.Load(ctx)
	if err != nil {
		return nil, err
	}
	usages := 0
	for _, item := range items {
		if item.ChildSKU == sku {
			usages++
		}
	}
	var reasons []string
	if usages > 0 {
		reasons = append(reasons, fmt.Sprintf(
			"Cannot delete product '%s' because it is used as a component in %d composition(s). Please remove it from all compositions first.",
			existing.Name, usages))
	}
	return reasons, nil
}
