package migration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	compositionrepo "github.com/mercata/catalog-engine/internal/composition/repository"
	"github.com/mercata/catalog-engine/internal/model"
	productrepo "github.com/mercata/catalog-engine/internal/product/repository"
	variantrepo "github.com/mercata/catalog-engine/internal/productvariation/repository"
	"github.com/mercata/catalog-engine/internal/storage"
	"github.com/mercata/catalog-engine/internal/storage/memory"
	variationrepo "github.com/mercata/catalog-engine/internal/variation/repository"
	typerepo "github.com/mercata/catalog-engine/internal/variationtype/repository"
)

// flakyStore refuses writes to one key once armed and out of allowance,
// simulating a backend fault mid-migration.
type flakyStore struct {
	storage.Store
	failKey string
	allow   int
	armed   bool
}

func (s *flakyStore) Set(ctx context.Context, key, value string) error {
	if s.armed && key == s.failKey {
		if s.allow == 0 {
			return errors.New("write refused")
		}
		s.allow--
	}
	return s.Store.Set(ctx, key, value)
}

type fixture struct {
	svc        *Service
	products   *productrepo.StoreRepository
	types      *typerepo.StoreRepository
	variations *variationrepo.StoreRepository
	variants   *variantrepo.StoreRepository
	components *compositionrepo.StoreRepository
}

func setup(t *testing.T) *fixture {
	return setupWith(t, memory.NewStore())
}

func setupWith(t *testing.T, store storage.Store) *fixture {
	t.Helper()
	f := &fixture{
		products:   productrepo.NewStoreRepository(store),
		types:      typerepo.NewStoreRepository(store),
		variations: variationrepo.NewStoreRepository(store),
		variants:   variantrepo.NewStoreRepository(store),
		components: compositionrepo.NewStoreRepository(store),
	}
	f.svc = NewService(f.products, f.types, f.variations, f.variants, f.components, zap.NewNop())
	return f
}

func (f *fixture) seedProduct(t *testing.T, sku string, composite, variable bool) {
	t.Helper()
	p, err := model.NewProduct(model.ProductInput{
		SKU:          sku,
		Name:         "Product " + sku,
		IsComposite:  composite,
		HasVariation: variable,
	})
	require.NoError(t, err)
	require.NoError(t, f.products.Create(context.Background(), p))
}

func (f *fixture) seedComponent(t *testing.T, parentKey, childSKU string, quantity int) model.CompositionItem {
	t.Helper()
	item, err := model.NewCompositionItem(model.CompositionItemInput{
		ParentKey: parentKey,
		ChildSKU:  childSKU,
		Quantity:  quantity,
	})
	require.NoError(t, err)
	require.NoError(t, f.components.Create(context.Background(), item))
	return item
}

func (f *fixture) seedVariation(t *testing.T, typeID, name string) model.Variation {
	t.Helper()
	v, err := model.NewVariation(model.VariationInput{VariationTypeID: typeID, Name: name})
	require.NoError(t, err)
	require.NoError(t, f.variations.Create(context.Background(), v))
	// Creation timestamps order the variations; keep them distinct.
	time.Sleep(2 * time.Millisecond)
	return v
}

func (f *fixture) seedVariant(t *testing.T, sku string, selections map[string]string) model.ProductVariationItem {
	t.Helper()
	variant, err := model.NewProductVariationItem(model.ProductVariationItemInput{
		ProductSKU: sku,
		Selections: selections,
	})
	require.NoError(t, err)
	require.NoError(t, f.variants.Create(context.Background(), variant))
	return variant
}

func TestCompositeToVariations(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedProduct(t, "CHILD-001", false, false)
	f.seedProduct(t, "CHILD-002", false, false)
	f.seedProduct(t, "PARENT-001", true, false)
	f.seedComponent(t, "PARENT-001", "CHILD-001", 2)
	f.seedComponent(t, "PARENT-001", "CHILD-002", 3)

	res := f.svc.CompositeToVariations(ctx, "PARENT-001")
	require.Empty(t, res.Errors)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.MigratedItemsCount)

	vt, err := f.types.FindByName(ctx, DefaultVariationTypeName)
	require.NoError(t, err)
	require.NotNil(t, vt)
	variations, err := f.variations.FindByType(ctx, vt.ID)
	require.NoError(t, err)
	require.Len(t, variations, 1)
	assert.Equal(t, DefaultVariationName, variations[0].Name)

	variants, err := f.variants.FindByProduct(ctx, "PARENT-001")
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.True(t, variants[0].SelectsVariation(variations[0].ID))

	bare, err := f.components.FindByParent(ctx, "PARENT-001")
	require.NoError(t, err)
	assert.Empty(t, bare)
	moved, err := f.components.FindByParent(ctx, model.VariationParentKey("PARENT-001", variations[0].ID))
	require.NoError(t, err)
	assert.Len(t, moved, 2)
}

func TestCompositeToVariationsReportsPartialFailure(t *testing.T) {
	store := &flakyStore{Store: memory.NewStore(), failKey: storage.KeyCompositionItems, allow: 1}
	f := setupWith(t, store)
	ctx := context.Background()

	f.seedProduct(t, "CHILD-001", false, false)
	f.seedProduct(t, "CHILD-002", false, false)
	f.seedProduct(t, "PARENT-001", true, false)
	first := f.seedComponent(t, "PARENT-001", "CHILD-001", 2)
	second := f.seedComponent(t, "PARENT-001", "CHILD-002", 3)

	store.armed = true
	res := f.svc.CompositeToVariations(ctx, "PARENT-001")
	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "re-parent item")
	assert.Equal(t, 1, res.MigratedItemsCount)

	vt, err := f.types.FindByName(ctx, DefaultVariationTypeName)
	require.NoError(t, err)
	require.NotNil(t, vt)
	variations, err := f.variations.FindByType(ctx, vt.ID)
	require.NoError(t, err)
	require.Len(t, variations, 1)

	// The moved item stays moved, the failed one keeps its old parent.
	moved, err := f.components.FindByParent(ctx, model.VariationParentKey("PARENT-001", variations[0].ID))
	require.NoError(t, err)
	require.Len(t, moved, 1)
	assert.Equal(t, first.ID, moved[0].ID)

	remaining, err := f.components.FindByParent(ctx, "PARENT-001")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, second.ID, remaining[0].ID)
}

func TestCompositeToVariationsWithoutItems(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedProduct(t, "EMPTY-001", true, false)

	res := f.svc.CompositeToVariations(ctx, "EMPTY-001")
	require.Empty(t, res.Errors)
	assert.True(t, res.Success)
	assert.Equal(t, 0, res.MigratedItemsCount)

	variants, err := f.variants.FindByProduct(ctx, "EMPTY-001")
	require.NoError(t, err)
	assert.Len(t, variants, 1)
}

func TestCompositeToVariationsRejectsWrongState(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedProduct(t, "SIMPLE-001", false, false)

	res := f.svc.CompositeToVariations(ctx, "SIMPLE-001")
	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "is not in the composite state")

	res = f.svc.CompositeToVariations(ctx, "MISSING")
	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "does not exist")
}

func TestCompositeToVariationsReusesSentinel(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedProduct(t, "PARENT-001", true, false)
	f.seedProduct(t, "PARENT-002", true, false)

	require.True(t, f.svc.CompositeToVariations(ctx, "PARENT-001").Success)
	require.True(t, f.svc.CompositeToVariations(ctx, "PARENT-002").Success)

	types, err := f.types.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, types, 1)
	variations, err := f.variations.FindByType(ctx, types[0].ID)
	require.NoError(t, err)
	require.Len(t, variations, 1)

	first, err := f.variants.FindByProduct(ctx, "PARENT-001")
	require.NoError(t, err)
	second, err := f.variants.FindByProduct(ctx, "PARENT-002")
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.True(t, first[0].SelectsVariation(variations[0].ID))
	assert.True(t, second[0].SelectsVariation(variations[0].ID))
}

func TestVariationsToCompositeKeepsFirstVariation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedProduct(t, "CHILD-001", false, false)
	f.seedProduct(t, "CHILD-002", false, false)
	f.seedProduct(t, "CHILD-003", false, false)
	f.seedProduct(t, "PARENT-001", true, true)

	vt, err := model.NewVariationType(model.VariationTypeInput{Name: "Size"})
	require.NoError(t, err)
	require.NoError(t, f.types.Create(ctx, vt))
	small := f.seedVariation(t, vt.ID, "Small")
	large := f.seedVariation(t, vt.ID, "Large")

	f.seedVariant(t, "PARENT-001", map[string]string{vt.ID: small.ID})
	f.seedVariant(t, "PARENT-001", map[string]string{vt.ID: large.ID})

	smallKey := model.VariationParentKey("PARENT-001", small.ID)
	largeKey := model.VariationParentKey("PARENT-001", large.ID)
	f.seedComponent(t, smallKey, "CHILD-001", 1)
	f.seedComponent(t, smallKey, "CHILD-002", 2)
	f.seedComponent(t, largeKey, "CHILD-003", 1)

	res := f.svc.VariationsToComposite(ctx, "PARENT-001", StrategyFirstVariation)
	require.Empty(t, res.Errors)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.MigratedItemsCount)

	merged, err := f.components.FindByParent(ctx, "PARENT-001")
	require.NoError(t, err)
	require.Len(t, merged, 2)
	skus := []string{merged[0].ChildSKU, merged[1].ChildSKU}
	assert.ElementsMatch(t, []string{"CHILD-001", "CHILD-002"}, skus)

	leftover, err := f.components.FindByParent(ctx, largeKey)
	require.NoError(t, err)
	assert.Empty(t, leftover)

	variants, err := f.variants.FindByProduct(ctx, "PARENT-001")
	require.NoError(t, err)
	assert.Empty(t, variants)

	gone, err := f.variations.FindByID(ctx, small.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	gone, err = f.variations.FindByID(ctx, large.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestVariationsToCompositeKeepsSharedVariations(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedProduct(t, "PARENT-001", true, true)
	f.seedProduct(t, "PARENT-002", true, true)

	vt, err := model.NewVariationType(model.VariationTypeInput{Name: "Size"})
	require.NoError(t, err)
	require.NoError(t, f.types.Create(ctx, vt))
	small := f.seedVariation(t, vt.ID, "Small")

	f.seedVariant(t, "PARENT-001", map[string]string{vt.ID: small.ID})
	f.seedVariant(t, "PARENT-002", map[string]string{vt.ID: small.ID})

	res := f.svc.VariationsToComposite(ctx, "PARENT-001", StrategyFirstVariation)
	require.Empty(t, res.Errors)
	assert.True(t, res.Success)

	kept, err := f.variations.FindByID(ctx, small.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)

	others, err := f.variants.FindByProduct(ctx, "PARENT-002")
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestVariationsToCompositeRejectsUnknownStrategy(t *testing.T) {
	f := setup(t)

	res := f.svc.VariationsToComposite(context.Background(), "PARENT-001", "newest-variation")
	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "unknown migration strategy")
}

func TestVariationsToCompositeRejectsWrongState(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedProduct(t, "PLAIN-001", true, false)

	res := f.svc.VariationsToComposite(ctx, "PLAIN-001", StrategyFirstVariation)
	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "is not in the composite+variable state")
}

func TestDiscardCompositeData(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedProduct(t, "CHILD-001", false, false)
	f.seedProduct(t, "PARENT-001", true, true)

	vt, err := model.NewVariationType(model.VariationTypeInput{Name: "Size"})
	require.NoError(t, err)
	require.NoError(t, f.types.Create(ctx, vt))
	small := f.seedVariation(t, vt.ID, "Small")
	f.seedVariant(t, "PARENT-001", map[string]string{vt.ID: small.ID})

	f.seedComponent(t, "PARENT-001", "CHILD-001", 1)
	f.seedComponent(t, model.VariationParentKey("PARENT-001", small.ID), "CHILD-001", 2)

	res := f.svc.DiscardCompositeData(ctx, "PARENT-001")
	require.Empty(t, res.Errors)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.MigratedItemsCount)

	all, err := f.components.FindByBaseSKU(ctx, "PARENT-001")
	require.NoError(t, err)
	assert.Empty(t, all)

	variants, err := f.variants.FindByProduct(ctx, "PARENT-001")
	require.NoError(t, err)
	assert.Empty(t, variants)

	gone, err := f.variations.FindByID(ctx, small.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
