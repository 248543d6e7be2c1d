package model

import (
	"strings"
	"time"
)

// BaseModel carries the identity and timestamps shared by every
// UUID-keyed entity. Product is the exception: its identity is the SKU.
type BaseModel struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ParentKeySeparator joins a product SKU with a variation ID to address
// composition items that hang off one specific variation of a
// composite+variable product.
const ParentKeySeparator = "#"

// VariationParentKey builds the "<sku>#<variationID>" composite parent key.
func VariationParentKey(sku, variationID string) string {
	return sku + ParentKeySeparator + variationID
}

// SplitParentKey splits a parent key into its base SKU and, when present,
// the variation ID. For a bare SKU the variation ID is empty.
func SplitParentKey(key string) (sku, variationID string) {
	sku, variationID, _ = strings.Cut(key, ParentKeySeparator)
	return sku, variationID
}

// ParentBaseSKU returns the product SKU addressed by a parent key,
// whether bare or variation-scoped.
func ParentBaseSKU(key string) string {
	sku, _ := SplitParentKey(key)
	return sku
}

// NormalizeName is the canonical form used for uniqueness checks:
// case-insensitive, surrounding whitespace ignored.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func now() time.Time {
	return time.Now().UTC()
}
