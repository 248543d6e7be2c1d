package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mercata/catalog-engine/internal/composition"
	"github.com/mercata/catalog-engine/internal/model"
	"github.com/mercata/catalog-engine/internal/product"
	"github.com/mercata/catalog-engine/internal/product/dto"
	"github.com/mercata/catalog-engine/internal/productvariation"
)

var ErrNotFound = errors.New("product not found")

type productUseCase struct {
	repo       product.Repository
	components composition.Repository
	variants   productvariation.Repository
	logger     *zap.Logger
}

func NewProductUseCase(repo product.Repository, components composition.Repository, variants productvariation.Repository, logger *zap.Logger) product.UseCase {
	return &productUseCase{
		repo:       repo,
		components: components,
		variants:   variants,
		logger:     logger,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	weight, dimensions, err := measuresFromInput(input.Weight, input.Height, input.Width, input.Depth)
	if err != nil {
		return nil, err
	}
	p, err := model.NewProduct(model.ProductInput{
		SKU:          input.SKU,
		Name:         input.Name,
		Dimensions:   dimensions,
		Weight:       weight,
		IsComposite:  input.IsComposite,
		HasVariation: input.HasVariation,
	})
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.logger.Info("product created", zap.String("sku", p.SKU), zap.String("name", p.Name))
	return &p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, sku string) (*model.Product, error) {
	return uc.repo.FindBySKU(ctx, sku)
}

func (uc *productUseCase) ListProducts(ctx context.Context) ([]model.Product, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *productUseCase) SearchProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	return uc.repo.Search(ctx, filters)
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	current, err := uc.repo.FindBySKU(ctx, input.SKU)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}

	patch := model.ProductPatch{
		Name:            input.Name,
		ClearDimensions: input.ClearDimensions,
		ClearWeight:     input.ClearWeight,
	}
	if input.Weight != nil {
		w, err := model.NewWeight(*input.Weight)
		if err != nil {
			return nil, err
		}
		patch.Weight = &w
	}
	if input.Height != nil || input.Width != nil || input.Depth != nil {
		if input.Height == nil || input.Width == nil || input.Depth == nil {
			return nil, errors.New("dimensions require height, width and depth together")
		}
		d, err := model.NewDimensions(*input.Height, *input.Width, *input.Depth)
		if err != nil {
			return nil, err
		}
		patch.Dimensions = &d
	}

	updated, err := current.Update(patch)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, sku string) ([]product.CascadeOp, error) {
	completed, err := uc.repo.Delete(ctx, sku)
	if err != nil {
		uc.logger.Warn("product delete failed",
			zap.String("sku", sku),
			zap.Int("completed_ops", len(completed)),
			zap.Error(err))
		return completed, err
	}
	uc.logger.Info("product deleted", zap.String("sku", sku), zap.Int("cascade_ops", len(completed)))
	return completed, nil
}

func (uc *productUseCase) AddComponent(ctx context.Context, input *dto.AddComponentInput) (*model.CompositionItem, error) {
	item, err := model.NewCompositionItem(model.CompositionItemInput{
		ParentKey: input.ParentKey,
		ChildSKU:  input.ChildSKU,
		Quantity:  input.Quantity,
	})
	if err != nil {
		return nil, err
	}
	if err := uc.components.Create(ctx, item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (uc *productUseCase) ListComponents(ctx context.Context, parentKey string) ([]model.CompositionItem, error) {
	return uc.components.FindByParent(ctx, parentKey)
}

func (uc *productUseCase) RemoveComponent(ctx context.Context, id string) error {
	return uc.components.Delete(ctx, id)
}

func (uc *productUseCase) AddVariant(ctx context.Context, input *dto.AddVariantInput) (*model.ProductVariationItem, error) {
	p, err := uc.repo.FindBySKU(ctx, input.ProductSKU)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	if !p.HasVariation {
		return nil, fmt.Errorf("product '%s' does not have variations enabled", input.ProductSKU)
	}

	var weight *model.Weight
	if input.Weight != nil {
		w, err := model.NewWeight(*input.Weight)
		if err != nil {
			return nil, err
		}
		weight = &w
	}
	var dimensions *model.Dimensions
	if input.Height != nil || input.Width != nil || input.Depth != nil {
		if input.Height == nil || input.Width == nil || input.Depth == nil {
			return nil, errors.New("dimensions require height, width and depth together")
		}
		d, err := model.NewDimensions(*input.Height, *input.Width, *input.Depth)
		if err != nil {
			return nil, err
		}
		dimensions = &d
	}

	item, err := model.NewProductVariationItem(model.ProductVariationItemInput{
		ProductSKU:         input.ProductSKU,
		Selections:         input.Selections,
		WeightOverride:     weight,
		DimensionsOverride: dimensions,
	})
	if err != nil {
		return nil, err
	}
	if err := uc.variants.Create(ctx, item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (uc *productUseCase) ListVariants(ctx context.Context, sku string) ([]model.ProductVariationItem, error) {
	return uc.variants.FindByProduct(ctx, sku)
}

func (uc *productUseCase) RemoveVariant(ctx context.Context, id string) error {
	return uc.variants.Delete(ctx, id)
}

func measuresFromInput(weight, height, width, depth float64) (*model.Weight, *model.Dimensions, error) {
	var w *model.Weight
	if weight != 0 {
		parsed, err := model.NewWeight(weight)
		if err != nil {
			return nil, nil, err
		}
		w = &parsed
	}
	var d *model.Dimensions
	if height != 0 || width != 0 || depth != 0 {
		parsed, err := model.NewDimensions(height, width, depth)
		if err != nil {
			return nil, nil, err
		}
		d = &parsed
	}
	return w, d, nil
}
