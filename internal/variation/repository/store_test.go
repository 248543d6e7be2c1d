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
	repo   *StoreRepository
	store  storage.Store
	typeID string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	vt, err := model.NewVariationType(model.VariationTypeInput{Name: "Color"})
	require.NoError(t, err)
	types := storage.NewCollection[model.VariationType](store, storage.KeyVariationTypes)
	require.NoError(t, types.Save(ctx, []model.VariationType{vt}))

	return &fixture{repo: NewStoreRepository(store), store: store, typeID: vt.ID}
}

func (f *fixture) mustVariation(t *testing.T, name string) model.Variation {
	t.Helper()
	v, err := model.NewVariation(model.VariationInput{VariationTypeID: f.typeID, Name: name})
	require.NoError(t, err)
	return v
}

func TestCreateRequiresExistingType(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	v, err := model.NewVariation(model.VariationInput{VariationTypeID: "missing", Name: "Red"})
	require.NoError(t, err)
	err = f.repo.Create(ctx, v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "variation type 'missing' does not exist")
}

func TestNameUniqueWithinType(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.repo.Create(ctx, f.mustVariation(t, "Red")))

	err := f.repo.Create(ctx, f.mustVariation(t, " red "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A variation with name ' red ' already exists")

	// The same name under another type is fine.
	other, err := model.NewVariationType(model.VariationTypeInput{Name: "Finish"})
	require.NoError(t, err)
	types := storage.NewCollection[model.VariationType](f.store, storage.KeyVariationTypes)
	existing, err := types.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, types.Save(ctx, append(existing, other)))

	v, err := model.NewVariation(model.VariationInput{VariationTypeID: other.ID, Name: "Red"})
	require.NoError(t, err)
	require.NoError(t, f.repo.Create(ctx, v))
}

func TestRenameToOwnNameSucceeds(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	v := f.mustVariation(t, "Red")
	require.NoError(t, f.repo.Create(ctx, v))
	require.NoError(t, f.repo.Update(ctx, v))
}

func TestDeleteBlockedWhileUsedByProducts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	v := f.mustVariation(t, "Red")
	require.NoError(t, f.repo.Create(ctx, v))

	variant, err := model.NewProductVariationItem(model.ProductVariationItemInput{
		ProductSKU: "P-1",
		Selections: map[string]string{f.typeID: v.ID},
	})
	require.NoError(t, err)
	usages := storage.NewCollection[model.ProductVariationItem](f.store, storage.KeyProductVars)
	require.NoError(t, usages.Save(ctx, []model.ProductVariationItem{variant}))

	reasons, err := f.repo.ValidateForDeletion(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, reasons, 1)
	assert.Equal(t,
		"Cannot delete variation 'Red' because it is being used in 1 product variation(s). Please remove it from all products first.",
		reasons[0])

	err = f.repo.Delete(ctx, v.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please remove it from all products first")
}

func TestDeleteUnusedVariation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	v := f.mustVariation(t, "Red")
	require.NoError(t, f.repo.Create(ctx, v))
	require.NoError(t, f.repo.Delete(ctx, v.ID))

	found, err := f.repo.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFindByTypeKeepsCreationOrder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	red := f.mustVariation(t, "Red")
	blue := f.mustVariation(t, "Blue")
	require.NoError(t, f.repo.Create(ctx, red))
	require.NoError(t, f.repo.Create(ctx, blue))

	variations, err := f.repo.FindByType(ctx, f.typeID)
	require.NoError(t, err)
	require.Len(t, variations, 2)
	assert.Equal(t, red.ID, variations[0].ID)
	assert.Equal(t, blue.ID, variations[1].ID)

	count, err := f.repo.CountByType(ctx, f.typeID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
