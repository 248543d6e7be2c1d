package variationtype

import (
	"context"

	"github.com/mercata/catalog-engine/internal/model"
)

type Repository interface {
	Create(ctx context.Context, t model.VariationType) error
	Update(ctx context.Context, t model.VariationType) error
	Delete(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]model.VariationType, error)
	FindByID(ctx context.Context, id string) (*model.VariationType, error)
	// FindByName matches in normalized form (lowercase, trimmed).
	FindByName(ctx context.Context, name string) (*model.VariationType, error)
	Search(ctx context.Context, query string) ([]model.VariationType, error)

	ValidateForCreation(ctx context.Context, t model.VariationType) error
	ValidateForUpdate(ctx context.Context, t model.VariationType) error
	ValidateForDeletion(ctx context.Context, id string) ([]string, error)
}
