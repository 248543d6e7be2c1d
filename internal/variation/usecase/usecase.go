package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mercata/catalog-engine/internal/model"
	"github.com/mercata/catalog-engine/internal/variation"
	"github.com/mercata/catalog-engine/internal/variation/dto"
)

var ErrNotFound = errors.New("variation not found")

type variationUseCase struct {
	repo   variation.Repository
	logger *zap.Logger
}

func NewVariationUseCase(repo variation.Repository, logger *zap.Logger) variation.UseCase {
	return &variationUseCase{repo: repo, logger: logger}
}

func (uc *variationUseCase) CreateVariation(ctx context.Context, input *dto.CreateVariationInput) (*model.Variation, error) {
	v, err := model.NewVariation(model.VariationInput{
		VariationTypeID: input.VariationTypeID,
		Name:            input.Name,
	})
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	uc.logger.Info("variation created",
		zap.String("id", v.ID),
		zap.String("type_id", v.VariationTypeID),
		zap.String("name", v.Name))
	return &v, nil
}

func (uc *variationUseCase) GetVariation(ctx context.Context, id string) (*model.Variation, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *variationUseCase) ListVariationsOfType(ctx context.Context, typeID string) ([]model.Variation, error) {
	return uc.repo.FindByType(ctx, typeID)
}

func (uc *variationUseCase) SearchVariations(ctx context.Context, query string) ([]model.Variation, error) {
	return uc.repo.Search(ctx, query)
}

func (uc *variationUseCase) UpdateVariation(ctx context.Context, input *dto.UpdateVariationInput) (*model.Variation, error) {
	current, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}
	updated, err := current.Rename(input.Name)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (uc *variationUseCase) DeleteVariation(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("variation deleted", zap.String("id", id))
	return nil
}
