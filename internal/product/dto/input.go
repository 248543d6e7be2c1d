package dto

type CreateProductInput struct {
	SKU          string
	Name         string
	Height       float64
	Width        float64
	Depth        float64
	Weight       float64
	IsComposite  bool
	HasVariation bool
}

type UpdateProductInput struct {
	SKU             string
	Name            *string
	Height          *float64
	Width           *float64
	Depth           *float64
	ClearDimensions bool
	Weight          *float64
	ClearWeight     bool
}

type ProductFilters struct {
	Query         string
	OnlyComposite bool
	OnlyVariable  bool
}

type AddComponentInput struct {
	ParentKey string // bare SKU, or "<sku>#<variationID>"
	ChildSKU  string
	Quantity  int
}

type AddVariantInput struct {
	ProductSKU string
	Selections map[string]string // variation type ID -> variation ID
	Weight     *float64
	Height     *float64
	Width      *float64
	Depth      *float64
}
