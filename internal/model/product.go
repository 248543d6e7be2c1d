package model

import (
	"regexp"
	"time"
	"unicode/utf8"
)

// skuPattern: uppercase alphanumeric segments joined by single hyphens.
var skuPattern = regexp.MustCompile(`^[A-Z0-9]+(?:-[A-Z0-9]+)*$`)

const maxProductNameLength = 200

// StructureFlags is the (isComposite, hasVariation) pair that determines a
// product's structural state and which transitions are legal.
type StructureFlags struct {
	IsComposite  bool `json:"isComposite"`
	HasVariation bool `json:"hasVariation"`
}

// Product is the catalog root entity. The SKU is its identity and never
// changes after construction. A composite product computes weight and
// dimensions from its children, so its own stored values are ignored.
type Product struct {
	SKU          string      `json:"sku"`
	Name         string      `json:"name"`
	Dimensions   *Dimensions `json:"dimensions,omitempty"`
	Weight       *Weight     `json:"weight,omitempty"`
	IsComposite  bool        `json:"isComposite"`
	HasVariation bool        `json:"hasVariation"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

type ProductInput struct {
	SKU          string
	Name         string
	Dimensions   *Dimensions
	Weight       *Weight
	IsComposite  bool
	HasVariation bool
}

// ProductPatch is an update-by-diff: nil fields are left untouched.
// ClearDimensions/ClearWeight drop the optional values explicitly, since a
// nil pointer already means "no change". The SKU cannot be patched.
type ProductPatch struct {
	Name            *string
	Dimensions      *Dimensions
	ClearDimensions bool
	Weight          *Weight
	ClearWeight     bool
	IsComposite     *bool
	HasVariation    *bool
}

// NewProduct validates the input and constructs a Product. No Product
// value exists unless validation passed.
func NewProduct(in ProductInput) (Product, error) {
	if err := validateProduct(in.SKU, in.Name); err != nil {
		return Product{}, err
	}
	ts := now()
	return Product{
		SKU:          in.SKU,
		Name:         in.Name,
		Dimensions:   in.Dimensions,
		Weight:       in.Weight,
		IsComposite:  in.IsComposite,
		HasVariation: in.HasVariation,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}, nil
}

// Update applies the patch to a copy and bumps UpdatedAt. The receiver is
// left unmodified and the SKU carries over unchanged.
func (p Product) Update(patch ProductPatch) (Product, error) {
	next := p
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.ClearDimensions {
		next.Dimensions = nil
	} else if patch.Dimensions != nil {
		next.Dimensions = patch.Dimensions
	}
	if patch.ClearWeight {
		next.Weight = nil
	} else if patch.Weight != nil {
		next.Weight = patch.Weight
	}
	if patch.IsComposite != nil {
		next.IsComposite = *patch.IsComposite
	}
	if patch.HasVariation != nil {
		next.HasVariation = *patch.HasVariation
	}
	if err := validateProduct(next.SKU, next.Name); err != nil {
		return Product{}, err
	}
	next.UpdatedAt = now()
	if next.UpdatedAt.Before(p.UpdatedAt) {
		next.UpdatedAt = p.UpdatedAt
	}
	return next, nil
}

// Flags returns the structural state pair.
func (p Product) Flags() StructureFlags {
	return StructureFlags{IsComposite: p.IsComposite, HasVariation: p.HasVariation}
}

// ShouldIgnoreWeight reports whether the stored weight is meaningless
// because the product's weight is computed from its children.
func (p Product) ShouldIgnoreWeight() bool { return p.IsComposite }

// ShouldIgnoreDimensions is the dimensional counterpart of ShouldIgnoreWeight.
func (p Product) ShouldIgnoreDimensions() bool { return p.IsComposite }

// CanBeUsedInComposition reports whether the product may appear as a child
// of a composition. Variable products cannot: only their concrete
// variations can, addressed via a variation parent key.
func (p Product) CanBeUsedInComposition() bool { return !p.HasVariation }

func validateProduct(sku, name string) error {
	verr := &ValidationError{Entity: "product"}
	if sku == "" {
		verr.add("sku", "is required")
	} else if !skuPattern.MatchString(sku) {
		verr.add("sku", "must be uppercase alphanumeric with hyphens")
	}
	if name == "" {
		verr.add("name", "is required")
	} else if utf8.RuneCountInString(name) > maxProductNameLength {
		verr.add("name", "must be at most 200 characters")
	}
	return verr.errOrNil()
}
