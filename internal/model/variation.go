package model

import (
	"regexp"
	"unicode/utf8"

	"github.com/google/uuid"
)

// variationNamePattern: letters, digits, spaces, hyphens and underscores.
var variationNamePattern = regexp.MustCompile(`^[\pL\pN _-]+$`)

const maxVariationNameLength = 50

// VariationType groups variations under a named axis ("Color", "Size").
// Its name is unique across the catalog, compared in normalized form.
type VariationType struct {
	BaseModel
	Name               string `json:"name"`
	ModifiesWeight     bool   `json:"modifiesWeight"`
	ModifiesDimensions bool   `json:"modifiesDimensions"`
}

type VariationTypeInput struct {
	Name               string
	ModifiesWeight     bool
	ModifiesDimensions bool
}

type VariationTypePatch struct {
	Name               *string
	ModifiesWeight     *bool
	ModifiesDimensions *bool
}

func NewVariationType(in VariationTypeInput) (VariationType, error) {
	if err := validateVariationName("variation type", in.Name); err != nil {
		return VariationType{}, err
	}
	ts := now()
	return VariationType{
		BaseModel:          BaseModel{ID: uuid.New().String(), CreatedAt: ts, UpdatedAt: ts},
		Name:               in.Name,
		ModifiesWeight:     in.ModifiesWeight,
		ModifiesDimensions: in.ModifiesDimensions,
	}, nil
}

func (t VariationType) Update(patch VariationTypePatch) (VariationType, error) {
	next := t
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.ModifiesWeight != nil {
		next.ModifiesWeight = *patch.ModifiesWeight
	}
	if patch.ModifiesDimensions != nil {
		next.ModifiesDimensions = *patch.ModifiesDimensions
	}
	if err := validateVariationName("variation type", next.Name); err != nil {
		return VariationType{}, err
	}
	next.UpdatedAt = now()
	return next, nil
}

// AffectsCalculations reports whether selecting a variation of this type
// can change a product's computed weight or dimensions.
func (t VariationType) AffectsCalculations() bool {
	return t.ModifiesWeight || t.ModifiesDimensions
}

// Variation is one named option under a VariationType. Its name is unique
// within the type, compared in normalized form.
type Variation struct {
	BaseModel
	VariationTypeID string `json:"variationTypeId"`
	Name            string `json:"name"`
}

type VariationInput struct {
	VariationTypeID string
	Name            string
}

func NewVariation(in VariationInput) (Variation, error) {
	verr := &ValidationError{Entity: "variation"}
	if in.VariationTypeID == "" {
		verr.add("variationTypeId", "is required")
	}
	if err := verr.errOrNil(); err != nil {
		return Variation{}, err
	}
	if err := validateVariationName("variation", in.Name); err != nil {
		return Variation{}, err
	}
	ts := now()
	return Variation{
		BaseModel:       BaseModel{ID: uuid.New().String(), CreatedAt: ts, UpdatedAt: ts},
		VariationTypeID: in.VariationTypeID,
		Name:            in.Name,
	}, nil
}

func (v Variation) Rename(name string) (Variation, error) {
	if err := validateVariationName("variation", name); err != nil {
		return Variation{}, err
	}
	next := v
	next.Name = name
	next.UpdatedAt = now()
	return next, nil
}

func validateVariationName(entity, name string) error {
	verr := &ValidationError{Entity: entity}
	trimmed := NormalizeName(name)
	switch {
	case trimmed == "":
		verr.add("name", "is required")
	case utf8.RuneCountInString(name) > maxVariationNameLength:
		verr.add("name", "must be at most 50 characters")
	case !variationNamePattern.MatchString(name):
		verr.add("name", "contains unsupported characters")
	}
	return verr.errOrNil()
}
