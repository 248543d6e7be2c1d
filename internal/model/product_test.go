package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   ProductInput
		wantErr string
	}{
		{"valid simple", ProductInput{SKU: "ABC-123", Name: "Widget"}, ""},
		{"valid single segment", ProductInput{SKU: "X1", Name: "Widget"}, ""},
		{"missing sku", ProductInput{Name: "Widget"}, "sku"},
		{"lowercase sku", ProductInput{SKU: "abc-123", Name: "Widget"}, "sku"},
		{"sku with spaces", ProductInput{SKU: "AB C", Name: "Widget"}, "sku"},
		{"sku trailing hyphen", ProductInput{SKU: "ABC-", Name: "Widget"}, "sku"},
		{"missing name", ProductInput{SKU: "ABC-123"}, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProduct(tt.input)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.input.SKU, p.SKU)
				assert.False(t, p.CreatedAt.IsZero())
				assert.True(t, p.UpdatedAt.Equal(p.CreatedAt))
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Fields)
			assert.Equal(t, tt.wantErr, verr.Fields[0].Field)
		})
	}
}

func TestProductUpdateKeepsIdentity(t *testing.T) {
	p, err := NewProduct(ProductInput{SKU: "ABC-123", Name: "Widget"})
	require.NoError(t, err)

	name := "Widget v2"
	composite := true
	updated, err := p.Update(ProductPatch{Name: &name, IsComposite: &composite})
	require.NoError(t, err)

	assert.Equal(t, "ABC-123", updated.SKU)
	assert.Equal(t, "Widget v2", updated.Name)
	assert.True(t, updated.IsComposite)
	assert.False(t, updated.UpdatedAt.Before(p.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(p.CreatedAt))

	// The receiver is a value; the original is untouched.
	assert.Equal(t, "Widget", p.Name)
	assert.False(t, p.IsComposite)
}

func TestProductUpdateClearsOptionalValues(t *testing.T) {
	w, err := NewWeight(10)
	require.NoError(t, err)
	d, err := NewDimensions(1, 2, 3)
	require.NoError(t, err)
	p, err := NewProduct(ProductInput{SKU: "ABC-123", Name: "Widget", Weight: &w, Dimensions: &d})
	require.NoError(t, err)

	updated, err := p.Update(ProductPatch{ClearWeight: true, ClearDimensions: true})
	require.NoError(t, err)
	assert.Nil(t, updated.Weight)
	assert.Nil(t, updated.Dimensions)
	assert.NotNil(t, p.Weight)
}

func TestProductUpdateRejectsInvalidPatch(t *testing.T) {
	p, err := NewProduct(ProductInput{SKU: "ABC-123", Name: "Widget"})
	require.NoError(t, err)

	empty := ""
	_, err = p.Update(ProductPatch{Name: &empty})
	require.Error(t, err)
}

func TestProductStructurePredicates(t *testing.T) {
	simple, err := NewProduct(ProductInput{SKU: "S-1", Name: "Simple"})
	require.NoError(t, err)
	composite, err := NewProduct(ProductInput{SKU: "C-1", Name: "Composite", IsComposite: true})
	require.NoError(t, err)
	variable, err := NewProduct(ProductInput{SKU: "V-1", Name: "Variable", IsComposite: true, HasVariation: true})
	require.NoError(t, err)

	assert.True(t, simple.CanBeUsedInComposition())
	assert.False(t, simple.ShouldIgnoreWeight())

	assert.True(t, composite.ShouldIgnoreWeight())
	assert.True(t, composite.ShouldIgnoreDimensions())
	assert.True(t, composite.CanBeUsedInComposition())

	assert.False(t, variable.CanBeUsedInComposition())
	assert.Equal(t, StructureFlags{IsComposite: true, HasVariation: true}, variable.Flags())
}

func TestProductJSONRoundTrip(t *testing.T) {
	w, err := NewWeight(42.5)
	require.NoError(t, err)
	d, err := NewDimensions(10, 20, 30)
	require.NoError(t, err)
	p, err := NewProduct(ProductInput{SKU: "RT-1", Name: "Round trip", Weight: &w, Dimensions: &d, IsComposite: false})
	require.NoError(t, err)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var decoded Product
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, p.SKU, decoded.SKU)
	assert.Equal(t, p.Name, decoded.Name)
	assert.Equal(t, *p.Weight, *decoded.Weight)
	assert.Equal(t, *p.Dimensions, *decoded.Dimensions)
	assert.True(t, p.CreatedAt.Equal(decoded.CreatedAt))
	assert.True(t, p.UpdatedAt.Equal(decoded.UpdatedAt))
}
