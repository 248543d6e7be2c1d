package model

import "github.com/google/uuid"

// CompositionItem is one parent→child edge of a composite product. The
// parent key is either a bare product SKU or "<sku>#<variationID>" when the
// edge belongs to one variation of a composite+variable product. The child
// is always a non-variable product SKU.
type CompositionItem struct {
	BaseModel
	ParentKey string `json:"parentSku"`
	ChildSKU  string `json:"childSku"`
	Quantity  int    `json:"quantity"`
}

type CompositionItemInput struct {
	ParentKey string
	ChildSKU  string
	Quantity  int
}

func NewCompositionItem(in CompositionItemInput) (CompositionItem, error) {
	verr := &ValidationError{Entity: "composition item"}
	if in.ParentKey == "" {
		verr.add("parentSku", "is required")
	}
	if in.ChildSKU == "" {
		verr.add("childSku", "is required")
	}
	if in.Quantity < 1 {
		verr.add("quantity", "must be at least 1")
	}
	if err := verr.errOrNil(); err != nil {
		return CompositionItem{}, err
	}
	ts := now()
	return CompositionItem{
		BaseModel: BaseModel{ID: uuid.New().String(), CreatedAt: ts, UpdatedAt: ts},
		ParentKey: in.ParentKey,
		ChildSKU:  in.ChildSKU,
		Quantity:  in.Quantity,
	}, nil
}

// Reparent moves the item under a new parent key, keeping its identity.
// Migrations rely on this: items are rewritten in place, never duplicated.
func (c CompositionItem) Reparent(parentKey string) CompositionItem {
	next := c
	next.ParentKey = parentKey
	next.UpdatedAt = now()
	return next
}

// WithQuantity returns a copy holding the new quantity.
func (c CompositionItem) WithQuantity(quantity int) (CompositionItem, error) {
	if quantity < 1 {
		verr := &ValidationError{Entity: "composition item"}
		verr.add("quantity", "must be at least 1")
		return CompositionItem{}, verr
	}
	next := c
	next.Quantity = quantity
	next.UpdatedAt = now()
	return next, nil
}
