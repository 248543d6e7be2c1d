package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercata/catalog-engine/internal/model"
	"github.com/mercata/catalog-engine/internal/storage"
	"github.com/mercata/catalog-engine/internal/storage/memory"
)

type fixture struct {
	repo        *StoreRepository
	typeID      string
	variationID string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	p, err := model.NewProduct(model.ProductInput{SKU: "VAR-001", Name: "Variable", IsComposite: true, HasVariation: true})
	require.NoError(t, err)
	products := storage.NewCollection[model.Product](store, storage.KeyProducts)
	require.NoError(t, products.Save(ctx, []model.Product{p}))

	vt, err := model.NewVariationType(model.VariationTypeInput{Name: "Color"})
	require.NoError(t, err)
	types := storage.NewCollection[model.VariationType](store, storage.KeyVariationTypes)
	require.NoError(t, types.Save(ctx, []model.VariationType{vt}))

	v, err := model.NewVariation(model.VariationInput{VariationTypeID: vt.ID, Name: "Red"})
	require.NoError(t, err)
	variations := storage.NewCollection[model.Variation](store, storage.KeyVariations)
	require.NoError(t, variations.Save(ctx, []model.Variation{v}))

	return &fixture{repo: NewStoreRepository(store), typeID: vt.ID, variationID: v.ID}
}

func TestCreateValidatesReferences(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	variant, err := model.NewProductVariationItem(model.ProductVariationItemInput{
		ProductSKU: "VAR-001",
		Selections: map[string]string{f.typeID: f.variationID},
	})
	require.NoError(t, err)
	require.NoError(t, f.repo.Create(ctx, variant))

	missing, err := model.NewProductVariationItem(model.ProductVariationItemInput{
		ProductSKU: "MISSING",
		Selections: map[string]string{f.typeID: f.variationID},
	})
	require.NoError(t, err)
	err = f.repo.Create(ctx, missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product 'MISSING' does not exist")

	badSelection, err := model.NewProductVariationItem(model.ProductVariationItemInput{
		ProductSKU: "VAR-001",
		Selections: map[string]string{f.typeID: "nope"},
	})
	require.NoError(t, err)
	err = f.repo.Create(ctx, badSelection)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "variation 'nope' does not exist")

	wrongType, err := model.NewProductVariationItem(model.ProductVariationItemInput{
		ProductSKU: "VAR-001",
		Selections: map[string]string{"other-type": f.variationID},
	})
	require.NoError(t, err)
	err = f.repo.Create(ctx, wrongType)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong to variation type")
}

func TestFindByProductKeepsCreationOrder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first, err := model.NewProductVariationItem(model.ProductVariationItemInput{
		ProductSKU: "VAR-001",
		Selections: map[string]string{f.typeID: f.variationID},
	})
	require.NoError(t, err)
	second, err := model.NewProductVariationItem(model.ProductVariationItemInput{
		ProductSKU: "VAR-001",
		Selections: map[string]string{f.typeID: f.variationID},
	})
	require.NoError(t, err)
	require.NoError(t, f.repo.Create(ctx, first))
	require.NoError(t, f.repo.Create(ctx, second))

	variants, err := f.repo.FindByProduct(ctx, "VAR-001")
	require.NoError(t, err)
	require.Len(t, variants, 2)
	assert.Equal(t, first.ID, variants[0].ID)
	assert.Equal(t, second.ID, variants[1].ID)

	count, err := f.repo.CountUsagesOfVariation(ctx, f.variationID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDeleteVariant(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	variant, err := model.NewProductVariationItem(model.ProductVariationItemInput{
		ProductSKU: "VAR-001",
		Selections: map[string]string{f.typeID: f.variationID},
	})
	require.NoError(t, err)
	require.NoError(t, f.repo.Create(ctx, variant))
	require.NoError(t, f.repo.Delete(ctx, variant.ID))

	found, err := f.repo.FindByID(ctx, variant.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	err = f.repo.Delete(ctx, variant.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchVariants(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	variant, err := model.NewProductVariationItem(model.ProductVariationItemInput{
		ProductSKU: "VAR-001",
		Selections: map[string]string{f.typeID: f.variationID},
	})
	require.NoError(t, err)
	require.NoError(t, f.repo.Create(ctx, variant))

	matched, err := f.repo.Search(ctx, "var-001")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, variant.ID, matched[0].ID)

	matched, err = f.repo.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, matched, 1)

	matched, err = f.repo.Search(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, matched)
}
