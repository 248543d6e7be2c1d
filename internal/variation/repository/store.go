package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mercata/catalog-engine/internal/model"
	"github.com/mercata/catalog-engine/internal/storage"
)

var ErrNotFound = errors.New("variation not found")

type StoreRepository struct {
	variations *storage.Collection[model.Variation]
	types      *storage.Collection[model.VariationType]
	usages     *storage.Collection[model.ProductVariationItem]
}

func NewStoreRepository(store storage.Store) *StoreRepository {
	return &StoreRepository{
		variations: storage.NewCollection[model.Variation](store, storage.KeyVariations),
		types:      storage.NewCollection[model.VariationType](store, storage.KeyVariationTypes),
		usages:     storage.NewCollection[model.ProductVariationItem](store, storage.KeyProductVars),
	}
}

func (r *StoreRepository) Create(ctx context.Context, v model.Variation) error {
	if err := r.ValidateForCreation(ctx, v); err != nil {
		return err
	}
	variations, err := r.variations.Load(ctx)
	if err != nil {
		return err
	}
	return r.variations.Save(ctx, append(variations, v))
}

func (r *StoreRepository) Update(ctx context.Context, v model.Variation) error {
	if err := r.ValidateForUpdate(ctx, v); err != nil {
		return err
	}
	variations, err := r.variations.Load(ctx)
	if err != nil {
		return err
	}
	for i := range variations {
		if variations[i].ID == v.ID {
			variations[i] = v
			return r.variations.Save(ctx, variations)
		}
	}
	return ErrNotFound
}

// Delete refuses while any product variation still selects the variation.
// The guard message is contract text consumed by the UI.
func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	reasons, err := r.ValidateForDeletion(ctx, id)
	if err != nil {
		return err
	}
	if len(reasons) > 0 {
		return errors.New(strings.Join(reasons, "; "))
	}
	variations, err := r.variations.Load(ctx)
	if err != nil {
		return err
	}
	kept := variations[:0]
	found := false
	for _, v := range variations {
		if v.ID == id {
			found = true
			continue
		}
		kept = append(kept, v)
	}
	if !found {
		return ErrNotFound
	}
	return r.variations.Save(ctx, kept)
}

func (r *StoreRepository) FindAll(ctx context.Context) ([]model.Variation, error) {
	return r.variations.Load(ctx)
}

func (r *StoreRepository) FindByID(ctx context.Context, id string) (*model.Variation, error) {
	variations, err := r.variations.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range variations {
		if variations[i].ID == id {
			v := variations[i]
			return &v, nil
		}
	}
	return nil, nil
}

func (r *StoreRepository) FindByType(ctx context.Context, typeID string) ([]model.Variation, error) {
	variations, err := r.variations.Load(ctx)
	if err != nil {
		return nil, err
	}
	var matched []model.Variation
	for _, v := range variations {
		if v.VariationTypeID == typeID {
			matched = append(matched, v)
		}
	}
	return matched, nil
}

func (r *StoreRepository) CountByType(ctx context.Context, typeID string) (int, error) {
	matched, err := r.FindByType(ctx, typeID)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (r *StoreRepository) Search(ctx context.Context, query string) ([]model.Variation, error) {
	variations, err := r.variations.Load(ctx)
	if err != nil {
		return nil, err
	}
	q := model.NormalizeName(query)
	if q == "" {
		return variations, nil
	}
	var matched []model.Variation
	for _, v := range variations {
		if strings.Contains(strings.ToLower(v.Name), q) {
			matched = append(matched, v)
		}
	}
	return matched, nil
}

func (r *StoreRepository) ValidateForCreation(ctx context.Context, v model.Variation) error {
	types, err := r.types.Load(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, t := range types {
		if t.ID == v.VariationTypeID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("variation type '%s' does not exist", v.VariationTypeID)
	}
	return r.checkNameUnique(ctx, v.VariationTypeID, v.Name, "")
}

func (r *StoreRepository) ValidateForUpdate(ctx context.Context, v model.Variation) error {
	existing, err := r.FindByID(ctx, v.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	return r.checkNameUnique(ctx, v.VariationTypeID, v.Name, v.ID)
}

func (r *StoreRepository) ValidateForDeletion(ctx context.Context, id string) ([]string, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	items, err := r.usages.Load(ctx)
	if err != nil {
		return nil, err
	}
	count := 0
	for _, item := range items {
		if item.SelectsVariation(id) {
			count++
		}
	}
	var reasons []string
	if count > 0 {
		reasons = append(reasons, fmt.Sprintf(
			"Cannot delete variation '%s' because it is being used in %d product variation(s). Please remove it from all products first.",
			existing.Name, count))
	}
	return reasons, nil
}

// Name uniqueness is scoped to the variation type and compared in
// normalized form, excluding the record itself on update.
func (r *StoreRepository) checkNameUnique(ctx context.Context, typeID, name, excludeID string) error {
	variations, err := r.FindByType(ctx, typeID)
	if err != nil {
		return err
	}
	normalized := model.NormalizeName(name)
	for _, v := range variations {
		if v.ID != excludeID && model.NormalizeName(v.Name) == normalized {
			return fmt.Errorf("A variation with name '%s' already exists", name)
		}
	}
	return nil
}
