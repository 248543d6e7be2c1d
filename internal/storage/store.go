// Package storage defines the key-value port every repository runs on and
// the JSON collection codec they share. The port is deliberately small:
// one serialized JSON array per entity collection, with no multi-key
// atomicity. Cascades and migrations are therefore ordered plans executed
// step by step, and callers observe partial progress on failure.
package storage

import "context"

// Store is the key-value collaborator. Get reports presence explicitly so
// an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Collection keys. One JSON array per entity type.
const (
	KeyProducts         = "products"
	KeyVariationTypes   = "variation_types"
	KeyVariations       = "variations"
	KeyProductVars      = "product_variations"
	KeyCompositionItems = "composition_items"
)
