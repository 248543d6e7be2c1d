package dto

type CreateVariationTypeInput struct {
	Name               string
	ModifiesWeight     bool
	ModifiesDimensions bool
}

type UpdateVariationTypeInput struct {
	ID                 string
	Name               *string
	ModifiesWeight     *bool
	ModifiesDimensions *bool
}
