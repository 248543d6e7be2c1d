package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mercata/catalog-engine/internal/model"
	"github.com/mercata/catalog-engine/internal/storage"
)

var ErrNotFound = errors.New("composition item not found")

// StoreRepository keeps composition edges in the shared key-value store.
// Reference checks read the products collection directly: the store is
// denormalized, so integrity lives here.
type StoreRepository struct {
	items    *storage.Collection[model.CompositionItem]
	products *storage.Collection[model.Product]
}

func NewStoreRepository(store storage.Store) *StoreRepository {
	return &StoreRepository{
		items:    storage.NewCollection[model.CompositionItem](store, storage.KeyCompositionItems),
		products: storage.NewCollection[model.Product](store, storage.KeyProducts),
	}
}

func (r *StoreRepository) findProduct(ctx context.Context, sku string) (*model.Product, error) {
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

func (r *StoreRepository) Create(ctx context.Context, item model.CompositionItem) error {
	if err := r.ValidateForCreation(ctx, item); err != nil {
		return err
	}
	items, err := r.items.Load(ctx)
	if err != nil {
		return err
	}
	return r.items.Save(ctx, append(items, item))
}

func (r *StoreRepository) Update(ctx context.Context, item model.CompositionItem) error {
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

func (r *StoreRepository) FindAll(ctx context.Context) ([]model.CompositionItem, error) {
	return r.items.Load(ctx)
}

func (r *StoreRepository) FindByID(ctx context.Context, id string) (*model.CompositionItem, error) {
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

func (r *StoreRepository) FindByParent(ctx context.Context, parentKey string) ([]model.CompositionItem, error) {
	items, err := r.items.Load(ctx)
	if err != nil {
		return nil, err
	}
	var matched []model.CompositionItem
	for _, item := range items {
		if item.ParentKey == parentKey {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (r *StoreRepository) FindByBaseSKU(ctx context.Context, sku string) ([]model.CompositionItem, error) {
	items, err := r.items.Load(ctx)
	if err != nil {
		return nil, err
	}
	var matched []model.CompositionItem
	for _, item := range items {
		if model.ParentBaseSKU(item.ParentKey) == sku {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (r *StoreRepository) CountByChild(ctx context.Context, childSKU string) (int, error) {
	items, err := r.items.Load(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, item := range items {
		if item.ChildSKU == childSKU {
			count++
		}
	}
	return count, nil
}

func (r *StoreRepository) DeleteByParent(ctx context.Context, parentKey string) (int, error) {
	items, err := r.items.Load(ctx)
	if err != nil {
		return 0, err
	}
	kept := items[:0]
	removed := 0
	for _, item := range items {
		if item.ParentKey == parentKey {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, r.items.Save(ctx, kept)
}

func (r *StoreRepository) Search(ctx context.Context, query string) ([]model.CompositionItem, error) {
	items, err := r.items.Load(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items, nil
	}
	var matched []model.CompositionItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.ParentKey), q) ||
			strings.Contains(strings.ToLower(item.ChildSKU), q) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (r *StoreRepository) ValidateForCreation(ctx context.Context, item model.CompositionItem) error {
	if err := r.validateReferences(ctx, item); err != nil {
		return err
	}
	return r.detectCycle(ctx, item)
}

func (r *StoreRepository) ValidateForUpdate(ctx context.Context, item model.CompositionItem) error {
	existing, err := r.FindByID(ctx, item.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	if err := r.validateReferences(ctx, item); err != nil {
		return err
	}
	return r.detectCycle(ctx, item)
}

// ValidateForDeletion never blocks: nothing references a composition item.
func (r *StoreRepository) ValidateForDeletion(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

func (r *StoreRepository) validateReferences(ctx context.Context, item model.CompositionItem) error {
	parentSKU := model.ParentBaseSKU(item.ParentKey)
	parent, err := r.findProduct(ctx, parentSKU)
	if err != nil {
		return err
	}
	if parent == nil {
		return fmt.Errorf("parent product '%s' does not exist", parentSKU)
	}
	child, err := r.findProduct(ctx, item.ChildSKU)
	if err != nil {
		return err
	}
	if child == nil {
		return fmt.Errorf("child product '%s' does not exist", item.ChildSKU)
	}
	if !child.CanBeUsedInComposition() {
		return fmt.Errorf("product '%s' has variations and cannot be used in a composition", item.ChildSKU)
	}
	if item.ChildSKU == parentSKU {
		return fmt.Errorf("product '%s' cannot contain itself", parentSKU)
	}
	return nil
}

// detectCycle rejects an edge whose child transitively contains the
// parent's base SKU. Walks the composition graph from the child downwards;
// parent keys are compared by base SKU so variation-scoped edges count too.
func (r *StoreRepository) detectCycle(ctx context.Context, item model.CompositionItem) error {
	parentSKU := model.ParentBaseSKU(item.ParentKey)
	items, err := r.items.Load(ctx)
	if err != nil {
		return err
	}
	children := make(map[string][]string)
	for _, existing := range items {
		if existing.ID == item.ID {
			continue
		}
		base := model.ParentBaseSKU(existing.ParentKey)
		children[base] = append(children[base], existing.ChildSKU)
	}

	visited := map[string]bool{}
	queue := []string{item.ChildSKU}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == parentSKU {
			return fmt.Errorf("adding '%s' to '%s' would create a composition cycle", item.ChildSKU, parentSKU)
		}
		if visited[current] {
			continue
		}
		visited[current] = true
		queue = append(queue, children[current]...)
	}
	return nil
}
