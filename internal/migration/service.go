// Package migration moves or discards dependent composition and variation
// records when a product transitions between structural states. Operations
// are not atomic: the store has no transactions, so each step is applied
// individually and partial progress is reported, never rolled back.
package migration

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/mercata/catalog-engine/internal/model"
)

// StrategyFirstVariation keeps the composition items of the product's
// first variation (creation order) and discards every other variation.
const StrategyFirstVariation = "first-variation"

// Default sentinel names used when a composite product gains variations.
const (
	DefaultVariationTypeName = "Default"
	DefaultVariationName     = "Variation 1"
)

// Result is the outcome of one migration. Errors are captured rather than
// thrown: partial progress is possible and MigratedItemsCount must reach
// the caller even when a later step failed.
type Result struct {
	Success            bool
	MigratedItemsCount int
	Errors             []string
}

func failf(format string, args ...any) Result {
	return Result{Errors: []string{fmt.Sprintf(format, args...)}}
}

type ProductReader interface {
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
}

type TypeStore interface {
	FindByName(ctx context.Context, name string) (*model.VariationType, error)
	Create(ctx context.Context, t model.VariationType) error
}

type VariationStore interface {
	Create(ctx context.Context, v model.Variation) error
	FindByID(ctx context.Context, id string) (*model.Variation, error)
	FindByType(ctx context.Context, typeID string) ([]model.Variation, error)
	Delete(ctx context.Context, id string) error
}

type VariantStore interface {
	Create(ctx context.Context, item model.ProductVariationItem) error
	FindByProduct(ctx context.Context, sku string) ([]model.ProductVariationItem, error)
	CountUsagesOfVariation(ctx context.Context, variationID string) (int, error)
	Delete(ctx context.Context, id string) error
}

type ComponentStore interface {
	FindByParent(ctx context.Context, parentKey string) ([]model.CompositionItem, error)
	Update(ctx context.Context, item model.CompositionItem) error
	DeleteByParent(ctx context.Context, parentKey string) (int, error)
}

type Service struct {
	products   ProductReader
	types      TypeStore
	variations VariationStore
	variants   VariantStore
	components ComponentStore
	logger     *zap.Logger
}

func NewService(products ProductReader, types TypeStore, variations VariationStore, variants VariantStore, components ComponentStore, logger *zap.Logger) *Service {
	return &Service{
		products:   products,
		types:      types,
		variations: variations,
		variants:   variants,
		components: components,
		logger:     logger,
	}
}

// CompositeToVariations converts a composite product into a
// composite+variable one: it ensures the sentinel variation type and a
// "Variation 1" variation exist, records one product variation selecting
// it, and re-parents every composition item of the bare SKU under
// "<sku>#<variationID>". Items are rewritten in place, never duplicated.
// A re-parent failure leaves already-moved items moved and is reported in
// Errors.
func (s *Service) CompositeToVariations(ctx context.Context, sku string) Result {
	p, err := s.products.FindBySKU(ctx, sku)
	if err != nil {
		return failf("load product '%s': %v", sku, err)
	}
	if p == nil {
		return failf("product '%s' does not exist", sku)
	}
	if !p.IsComposite || p.HasVariation {
		return failf("product '%s' is not in the composite state (composite=%t, variation=%t)",
			sku, p.IsComposite, p.HasVariation)
	}

	typeID, variationID, err := s.ensureSentinelVariation(ctx)
	if err != nil {
		return failf("prepare sentinel variation: %v", err)
	}

	variant, err := model.NewProductVariationItem(model.ProductVariationItemInput{
		ProductSKU: sku,
		Selections: map[string]string{typeID: variationID},
	})
	if err != nil {
		return failf("build product variation for '%s': %v", sku, err)
	}
	if err := s.variants.Create(ctx, variant); err != nil {
		return failf("create product variation for '%s': %v", sku, err)
	}

	items, err := s.components.FindByParent(ctx, sku)
	if err != nil {
		return failf("load composition items of '%s': %v", sku, err)
	}

	newParent := model.VariationParentKey(sku, variationID)
	migrated := 0
	var errs []string
	for _, item := range items {
		if err := s.components.Update(ctx, item.Reparent(newParent)); err != nil {
			errs = append(errs, fmt.Sprintf("re-parent item %s: %v", item.ID, err))
			continue
		}
		migrated++
	}

	s.logger.Info("migrated composite product to variations",
		zap.String("sku", sku),
		zap.String("variation_id", variationID),
		zap.Int("migrated_items", migrated),
		zap.Int("failed_items", len(errs)))

	return Result{Success: len(errs) == 0, MigratedItemsCount: migrated, Errors: errs}
}

// VariationsToComposite is the inverse: the first variation's composition
// items move back under the bare SKU, every other variation's items are
// discarded, and the product's variation records are removed. Shared
// variations still selected by other products are left in place.
func (s *Service) VariationsToComposite(ctx context.Context, sku, strategy string) Result {
	if strategy != StrategyFirstVariation {
		return failf("unknown migration strategy '%s'", strategy)
	}
	p, err := s.products.FindBySKU(ctx, sku)
	if err != nil {
		return failf("load product '%s': %v", sku, err)
	}
	if p == nil {
		return failf("product '%s' does not exist", sku)
	}
	if !p.IsComposite || !p.HasVariation {
		return failf("product '%s' is not in the composite+variable state (composite=%t, variation=%t)",
			sku, p.IsComposite, p.HasVariation)
	}

	variants, err := s.variants.FindByProduct(ctx, sku)
	if err != nil {
		return failf("load product variations of '%s': %v", sku, err)
	}
	variationIDs, err := s.productVariationIDs(ctx, variants)
	if err != nil {
		return failf("resolve variations of '%s': %v", sku, err)
	}

	migrated := 0
	var errs []string

	if len(variationIDs) > 0 {
		first := variationIDs[0]
		items, err := s.components.FindByParent(ctx, model.VariationParentKey(sku, first))
		if err != nil {
			return failf("load composition items of '%s': %v", sku, err)
		}
		for _, item := range items {
			if err := s.components.Update(ctx, item.Reparent(sku)); err != nil {
				errs = append(errs, fmt.Sprintf("re-parent item %s: %v", item.ID, err))
				continue
			}
			migrated++
		}
		for _, variationID := range variationIDs[1:] {
			if _, err := s.components.DeleteByParent(ctx, model.VariationParentKey(sku, variationID)); err != nil {
				errs = append(errs, fmt.Sprintf("discard items of variation %s: %v", variationID, err))
			}
		}
	}

	for _, variant := range variants {
		if err := s.variants.Delete(ctx, variant.ID); err != nil {
			errs = append(errs, fmt.Sprintf("delete product variation %s: %v", variant.ID, err))
		}
	}
	s.deleteUnusedVariations(ctx, variationIDs, &errs)

	s.logger.Info("migrated variable product back to composite",
		zap.String("sku", sku),
		zap.Int("merged_items", migrated),
		zap.Int("failed_steps", len(errs)))

	return Result{Success: len(errs) == 0, MigratedItemsCount: migrated, Errors: errs}
}

// DiscardCompositeData removes every composition item of a product that is
// leaving the composite state, across the bare SKU and all variation keys,
// along with the product's variation records when present.
// MigratedItemsCount is the number of composition items discarded.
func (s *Service) DiscardCompositeData(ctx context.Context, sku string) Result {
	p, err := s.products.FindBySKU(ctx, sku)
	if err != nil {
		return failf("load product '%s': %v", sku, err)
	}
	if p == nil {
		return failf("product '%s' does not exist", sku)
	}
	if !p.IsComposite {
		return failf("product '%s' is not composite", sku)
	}

	discarded := 0
	var errs []string

	removed, err := s.components.DeleteByParent(ctx, sku)
	if err != nil {
		errs = append(errs, fmt.Sprintf("discard items of '%s': %v", sku, err))
	}
	discarded += removed

	variants, err := s.variants.FindByProduct(ctx, sku)
	if err != nil {
		return failf("load product variations of '%s': %v", sku, err)
	}
	variationIDs, err := s.productVariationIDs(ctx, variants)
	if err != nil {
		return failf("resolve variations of '%s': %v", sku, err)
	}
	for _, variationID := range variationIDs {
		removed, err := s.components.DeleteByParent(ctx, model.VariationParentKey(sku, variationID))
		if err != nil {
			errs = append(errs, fmt.Sprintf("discard items of variation %s: %v", variationID, err))
			continue
		}
		discarded += removed
	}
	for _, variant := range variants {
		if err := s.variants.Delete(ctx, variant.ID); err != nil {
			errs = append(errs, fmt.Sprintf("delete product variation %s: %v", variant.ID, err))
		}
	}
	s.deleteUnusedVariations(ctx, variationIDs, &errs)

	s.logger.Info("discarded composite data",
		zap.String("sku", sku),
		zap.Int("discarded_items", discarded),
		zap.Int("failed_steps", len(errs)))

	return Result{Success: len(errs) == 0, MigratedItemsCount: discarded, Errors: errs}
}

// ensureSentinelVariation finds or creates the Default type and its
// "Variation 1" entry, returning both IDs. A previous migration may have
// created either; both are reused when present.
func (s *Service) ensureSentinelVariation(ctx context.Context) (typeID, variationID string, err error) {
	t, err := s.types.FindByName(ctx, DefaultVariationTypeName)
	if err != nil {
		return "", "", err
	}
	if t == nil {
		created, err := model.NewVariationType(model.VariationTypeInput{Name: DefaultVariationTypeName})
		if err != nil {
			return "", "", err
		}
		if err := s.types.Create(ctx, created); err != nil {
			return "", "", err
		}
		t = &created
	}

	existing, err := s.variations.FindByType(ctx, t.ID)
	if err != nil {
		return "", "", err
	}
	for _, v := range existing {
		if model.NormalizeName(v.Name) == model.NormalizeName(DefaultVariationName) {
			return t.ID, v.ID, nil
		}
	}

	variation, err := model.NewVariation(model.VariationInput{
		VariationTypeID: t.ID,
		Name:            DefaultVariationName,
	})
	if err != nil {
		return "", "", err
	}
	if err := s.variations.Create(ctx, variation); err != nil {
		return "", "", err
	}
	return t.ID, variation.ID, nil
}

// productVariationIDs collects every variation the product's variants
// select, ordered by variation creation time so "first" is stable.
func (s *Service) productVariationIDs(ctx context.Context, variants []model.ProductVariationItem) ([]string, error) {
	seen := map[string]bool{}
	var resolved []model.Variation
	for _, variant := range variants {
		for _, variationID := range variant.SelectedVariationIDs() {
			if seen[variationID] {
				continue
			}
			seen[variationID] = true
			v, err := s.variations.FindByID(ctx, variationID)
			if err != nil {
				return nil, err
			}
			if v != nil {
				resolved = append(resolved, *v)
			}
		}
	}
	sort.Slice(resolved, func(i, j int) bool {
		if resolved[i].CreatedAt.Equal(resolved[j].CreatedAt) {
			return resolved[i].ID < resolved[j].ID
		}
		return resolved[i].CreatedAt.Before(resolved[j].CreatedAt)
	})
	ids := make([]string, len(resolved))
	for i, v := range resolved {
		ids[i] = v.ID
	}
	return ids, nil
}

// deleteUnusedVariations removes variations no product variation selects
// anymore. Variations still referenced elsewhere are skipped, not errors.
func (s *Service) deleteUnusedVariations(ctx context.Context, variationIDs []string, errs *[]string) {
	for _, variationID := range variationIDs {
		usages, err := s.variants.CountUsagesOfVariation(ctx, variationID)
		if err != nil {
			*errs = append(*errs, fmt.Sprintf("count usages of variation %s: %v", variationID, err))
			continue
		}
		if usages > 0 {
			continue
		}
		if err := s.variations.Delete(ctx, variationID); err != nil {
			*errs = append(*errs, fmt.Sprintf("delete variation %s: %v", variationID, err))
		}
	}
}
