package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mercata/catalog-engine/internal/model"
	"github.com/mercata/catalog-engine/internal/variationtype"
	"github.com/mercata/catalog-engine/internal/variationtype/dto"
)

var ErrNotFound = errors.New("variation type not found")

type variationTypeUseCase struct {
	repo   variationtype.Repository
	logger *zap.Logger
}

func NewVariationTypeUseCase(repo variationtype.Repository, logger *zap.Logger) variationtype.UseCase {
	return &variationTypeUseCase{repo: repo, logger: logger}
}

func (uc *variationTypeUseCase) CreateVariationType(ctx context.Context, input *dto.CreateVariationTypeInput) (*model.VariationType, error) {
	t, err := model.NewVariationType(model.VariationTypeInput{
		Name:               input.Name,
		ModifiesWeight:     input.ModifiesWeight,
		ModifiesDimensions: input.ModifiesDimensions,
	})
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	uc.logger.Info("variation type created", zap.String("id", t.ID), zap.String("name", t.Name))
	return &t, nil
}

func (uc *variationTypeUseCase) GetVariationType(ctx context.Context, id string) (*model.VariationType, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *variationTypeUseCase) ListVariationTypes(ctx context.Context) ([]model.VariationType, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *variationTypeUseCase) SearchVariationTypes(ctx context.Context, query string) ([]model.VariationType, error) {
	return uc.repo.Search(ctx, query)
}

func (uc *variationTypeUseCase) UpdateVariationType(ctx context.Context, input *dto.UpdateVariationTypeInput) (*model.VariationType, error) {
	current, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}
	updated, err := current.Update(model.VariationTypePatch{
		Name:               input.Name,
		ModifiesWeight:     input.ModifiesWeight,
		ModifiesDimensions: input.ModifiesDimensions,
	})
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (uc *variationTypeUseCase) DeleteVariationType(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("variation type deleted", zap.String("id", id))
	return nil
}
