package model

import "github.com/google/uuid"

// ProductVariationItem is one concrete variant of a variable product: a
// selection of exactly one variation per relevant variation type, with
// optional weight/dimensions overrides.
type ProductVariationItem struct {
	BaseModel
	ProductSKU         string            `json:"productSku"`
	Selections         map[string]string `json:"selections"`
	WeightOverride     *Weight           `json:"weightOverride,omitempty"`
	DimensionsOverride *Dimensions       `json:"dimensionsOverride,omitempty"`
}

type ProductVariationItemInput struct {
	ProductSKU         string
	Selections         map[string]string
	WeightOverride     *Weight
	DimensionsOverride *Dimensions
}

func NewProductVariationItem(in ProductVariationItemInput) (ProductVariationItem, error) {
	verr := &ValidationError{Entity: "product variation"}
	if in.ProductSKU == "" {
		verr.add("productSku", "is required")
	}
	if len(in.Selections) == 0 {
		verr.add("selections", "at least one selection is required")
	}
	for typeID, variationID := range in.Selections {
		if typeID == "" || variationID == "" {
			verr.add("selections", "selection ids must not be empty")
			break
		}
	}
	if err := verr.errOrNil(); err != nil {
		return ProductVariationItem{}, err
	}
	selections := make(map[string]string, len(in.Selections))
	for typeID, variationID := range in.Selections {
		selections[typeID] = variationID
	}
	ts := now()
	return ProductVariationItem{
		BaseModel:          BaseModel{ID: uuid.New().String(), CreatedAt: ts, UpdatedAt: ts},
		ProductSKU:         in.ProductSKU,
		Selections:         selections,
		WeightOverride:     in.WeightOverride,
		DimensionsOverride: in.DimensionsOverride,
	}, nil
}

// SelectsVariation reports whether any selection references the variation.
func (i ProductVariationItem) SelectsVariation(variationID string) bool {
	for _, selected := range i.Selections {
		if selected == variationID {
			return true
		}
	}
	return false
}

// SelectedVariationIDs returns every variation referenced by the item's
// selections. Composition items of this variant hang off
// VariationParentKey(productSku, variationID) for these IDs.
func (i ProductVariationItem) SelectedVariationIDs() []string {
	ids := make([]string, 0, len(i.Selections))
	for _, variationID := range i.Selections {
		ids = append(ids, variationID)
	}
	return ids
}
