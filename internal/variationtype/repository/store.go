package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mercata/catalog-engine/internal/model"
	"github.com/mercata/catalog-engine/internal/storage"
)

var ErrNotFound = errors.New("variation type not found")

type StoreRepository struct {
	types      *storage.Collection[model.VariationType]
	variations *storage.Collection[model.Variation]
}

func NewStoreRepository(store storage.Store) *StoreRepository {
	return &StoreRepository{
		types:      storage.NewCollection[model.VariationType](store, storage.KeyVariationTypes),
		variations: storage.NewCollection[model.Variation](store, storage.KeyVariations),
	}
}

func (r *StoreRepository) Create(ctx context.Context, t model.VariationType) error {
	if err := r.ValidateForCreation(ctx, t); err != nil {
		return err
	}
	types, err := r.types.Load(ctx)
	if err != nil {
		return err
	}
	return r.types.Save(ctx, append(types, t))
}

func (r *StoreRepository) Update(ctx context.Context, t model.VariationType) error {
	if err := r.ValidateForUpdate(ctx, t); err != nil {
		return err
	}
	types, err := r.types.Load(ctx)
	if err != nil {
		return err
	}
	for i := range types {
		if types[i].ID == t.ID {
			types[i] = t
			return r.types.Save(ctx, types)
		}
	}
	return ErrNotFound
}

// Delete refuses while any variation still references the type. The guard
// message is contract text consumed by the UI.
func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	reasons, err := r.ValidateForDeletion(ctx, id)
	if err != nil {
		return err
	}
	if len(reasons) > 0 {
		return errors.New(strings.Join(reasons, "; "))
	}
	types, err := r.types.Load(ctx)
	if err != nil {
		return err
	}
	kept := types[:0]
	found := false
	for _, t := range types {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return ErrNotFound
	}
	return r.types.Save(ctx, kept)
}

func (r *StoreRepository) FindAll(ctx context.Context) ([]model.VariationType, error) {
	return r.types.Load(ctx)
}

func (r *StoreRepository) FindByID(ctx context.Context, id string) (*model.VariationType, error) {
	types, err := r.types.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range types {
		if types[i].ID == id {
			t := types[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (r *StoreRepository) FindByName(ctx context.Context, name string) (*model.VariationType, error) {
	types, err := r.types.Load(ctx)
	if err != nil {
		return nil, err
	}
	normalized := model.NormalizeName(name)
	for i := range types {
		if model.NormalizeName(types[i].Name) == normalized {
			t := types[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (r *StoreRepository) Search(ctx context.Context, query string) ([]model.VariationType, error) {
	types, err := r.types.Load(ctx)
	if err != nil {
		return nil, err
	}
	q := model.NormalizeName(query)
	if q == "" {
		return types, nil
	}
	var matched []model.VariationType
	for _, t := range types {
		if strings.Contains(strings.ToLower(t.Name), q) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

func (r *StoreRepository) ValidateForCreation(ctx context.Context, t model.VariationType) error {
	return r.checkNameUnique(ctx, t.Name, "")
}

func (r *StoreRepository) ValidateForUpdate(ctx context.Context, t model.VariationType) error {
	existing, err := r.FindByID(ctx, t.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	return r.checkNameUnique(ctx, t.Name, t.ID)
}

func (r *StoreRepository) ValidateForDeletion(ctx context.Context, id string) ([]string, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	variations, err := r.variations.Load(ctx)
	if err != nil {
		return nil, err
	}
	count := 0
	for _, v := range variations {
		if v.VariationTypeID == id {
			count++
		}
	}
	var reasons []string
	if count > 0 {
		reasons = append(reasons, fmt.Sprintf(
			"Cannot delete variation type '%s' because it has %d variation(s) associated with it. Please delete all variations first.",
			existing.Name, count))
	}
	return reasons, nil
}

func (r *StoreRepository) checkNameUnique(ctx context.Context, name, excludeID string) error {
	existing, err := r.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != excludeID {
		return fmt.Errorf("A variation type with name '%s' already exists", name)
	}
	return nil
}
