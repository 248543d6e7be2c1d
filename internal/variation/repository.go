package variation

import (
	"context"

	"github.com/mercata/catalog-engine/internal/model"
)

type Repository interface {
	Create(ctx context.Context, v model.Variation) error
	Update(ctx context.Context, v model.Variation) error
	Delete(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]model.Variation, error)
	FindByID(ctx context.Context, id string) (*model.Variation, error)
	// FindByType returns the type's variations in creation order.
	FindByType(ctx context.Context, typeID string) ([]model.Variation, error)
	CountByType(ctx context.Context, typeID string) (int, error)
	Search(ctx context.Context, query string) ([]model.Variation, error)

	ValidateForCreation(ctx context.Context, v model.Variation) error
	ValidateForUpdate(ctx context.Context, v model.Variation) error
	ValidateForDeletion(ctx context.Context, id string) ([]string, error)
}
