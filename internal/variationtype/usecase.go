package variationtype

import (
	"context"

	"github.com/mercata/catalog-engine/internal/model"
	"github.com/mercata/catalog-engine/internal/variationtype/dto"
)

type UseCase interface {
	CreateVariationType(ctx context.Context, input *dto.CreateVariationTypeInput) (*model.VariationType, error)
	GetVariationType(ctx context.Context, id string) (*model.VariationType, error)
	ListVariationTypes(ctx context.Context) ([]model.VariationType, error)
	SearchVariationTypes(ctx context.Context, query string) ([]model.VariationType, error)
	UpdateVariationType(ctx context.Context, input *dto.UpdateVariationTypeInput) (*model.VariationType, error)
	DeleteVariationType(ctx context.Context, id string) error
}
