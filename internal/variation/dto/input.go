package dto

type CreateVariationInput struct {
	VariationTypeID string
	Name            string
}

type UpdateVariationInput struct {
	ID   string
	Name string
}
