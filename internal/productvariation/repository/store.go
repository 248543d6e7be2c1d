package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mercata/catalog-engine/internal/model"
	"github.com/mercata/catalog-engine/internal/storage"
)

var ErrNotFound = errors.New("product variation not found")

type StoreRepository struct {
	items      *storage.Collection[model.ProductVariationItem]
	products   *storage.Collection[model.Product]
	variations *storage.Collection[model.Variation]
}

func NewStoreRepository(store storage.Store) *StoreRepository {
	return &StoreRepository{
		items:      storage.NewCollection[model.ProductVariationItem](store, storage.KeyProductVars),
		products:   storage.NewCollection[model.Product](store, storage.KeyProducts),
		variations: storage.NewCollection[model.Variation](store, storage.KeyVariations),
	}
}

func (r *StoreRepository) Create(ctx context.Context, item model.ProductVariationItem) error {
	if err := r.ValidateForCreation(ctx, item); err != nil {
		return err
	}
	items, err := r.items.Load(ctx)
	if err != nil {
		return err
	}
	return r.items.Save(ctx, append(items, item))
}

func (r *StoreRepository) Update(ctx context.Context, item model.ProductVariationItem) error {
	if err := r.ValidateForUpdate(ctx, item); err != nil {
		return err
	}
	items, err := r.items.Load(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = item
			return r.items.Save(ctx, items)
		}
	}
	return ErrNotFound
}

func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	items, err := r.items.Load(ctx)
	if err != nil {
		return err
	}
	kept := items[:0]
	found := false
	for _, item := range items {
		if item.ID == id {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return ErrNotFound
	}
	return r.items.Save(ctx, kept)
}

func (r *StoreRepository) FindAll(ctx context.Context) ([]model.ProductVariationItem, error) {
	return r.items.Load(ctx)
}

func (r *StoreRepository) FindByID(ctx context.Context, id string) (*model.ProductVariationItem, error) {
	items, err := r.items.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			item := items[i]
			return &item, nil
		}
	}
	return nil, nil
}

// FindByProduct preserves collection order, which is creation order:
// new variants are always appended.
func (r *StoreRepository) FindByProduct(ctx context.Context, sku string) ([]model.ProductVariationItem, error) {
	items, err := r.items.Load(ctx)
	if err != nil {
		return nil, err
	}
	var matched []model.ProductVariationItem
	for _, item := range items {
		if item.ProductSKU == sku {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (r *StoreRepository) Search(ctx context.Context, query string) ([]model.ProductVariationItem, error) {
	items, err := r.items.Load(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items, nil
	}
	var matched []model.ProductVariationItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.ProductSKU), q) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (r *StoreRepository) CountUsagesOfVariation(ctx context.Context, variationID string) (int, error) {
	items, err := r.items.Load(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, item := range items {
		if item.SelectsVariation(variationID) {
			count++
		}
	}
	return count, nil
}

func (r *StoreRepository) ValidateForCreation(ctx context.Context, item model.ProductVariationItem) error {
	return r.validateReferences(ctx, item)
}

func (r *StoreRepository) ValidateForUpdate(ctx context.Context, item model.ProductVariationItem) error {
	existing, err := r.FindByID(ctx, item.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	return r.validateReferences(ctx, item)
}

// ValidateForDeletion never blocks: composition items under the variant's
// parent keys are removed by the owning cascade, not guarded here.
func (r *StoreRepository) ValidateForDeletion(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

func (r *StoreRepository) validateReferences(ctx context.Context, item model.ProductVariationItem) error {
	products, err := r.products.Load(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, p := range products {
		if p.SKU == item.ProductSKU {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("product '%s' does not exist", item.ProductSKU)
	}
	// The hasVariation flag is deliberately not checked here: during an
	// enable-variations migration the variant record is written before the
	// flag flips. The usecase enforces the flag for direct variant edits.

	variations, err := r.variations.Load(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]model.Variation, len(variations))
	for _, v := range variations {
		byID[v.ID] = v
	}
	for typeID, variationID := range item.Selections {
		v, ok := byID[variationID]
		if !ok {
			return fmt.Errorf("variation '%s' does not exist", variationID)
		}
		if v.VariationTypeID != typeID {
			return fmt.Errorf("variation '%s' does not belong to variation type '%s'", v.Name, typeID)
		}
	}
	return nil
}
