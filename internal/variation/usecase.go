package variation

import (
	"context"

	"github.com/mercata/catalog-engine/internal/model"
	"github.com/mercata/catalog-engine/internal/variation/dto"
)

type UseCase interface {
	CreateVariation(ctx context.Context, input *dto.CreateVariationInput) (*model.Variation, error)
	GetVariation(ctx context.Context, id string) (*model.Variation, error)
	ListVariationsOfType(ctx context.Context, typeID string) ([]model.Variation, error)
	SearchVariations(ctx context.Context, query string) ([]model.Variation, error)
	UpdateVariation(ctx context.Context, input *dto.UpdateVariationInput) (*model.Variation, error)
	DeleteVariation(ctx context.Context, id string) error
}
