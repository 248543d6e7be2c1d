package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mercata/catalog-engine/internal/migration"
	"github.com/mercata/catalog-engine/internal/model"
	"github.com/mercata/catalog-engine/internal/transition"
)

var (
	ErrNoPendingTransition = errors.New("no pending transition")
	ErrTransitionPending   = errors.New("another transition is already pending")
)

type ProductStore interface {
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	Update(ctx context.Context, p model.Product) error
}

type ComponentCounter interface {
	FindByBaseSKU(ctx context.Context, sku string) ([]model.CompositionItem, error)
}

type Migrator interface {
	CompositeToVariations(ctx context.Context, sku string) migration.Result
	VariationsToComposite(ctx context.Context, sku, strategy string) migration.Result
	DiscardCompositeData(ctx context.Context, sku string) migration.Result
}

type transitionUseCase struct {
	products   ProductStore
	components ComponentCounter
	migrator   Migrator
	logger     *zap.Logger

	mu      sync.Mutex
	pending *transition.PendingTransition
}

func NewTransitionUseCase(products ProductStore, components ComponentCounter, migrator Migrator, logger *zap.Logger) transition.UseCase {
	return &transitionUseCase{
		products:   products,
		components: components,
		migrator:   migrator,
		logger:     logger,
	}
}

func (uc *transitionUseCase) CheckTransitionRequired(ctx context.Context, sku string, target model.StructureFlags) (bool, error) {
	p, err := uc.products.FindBySKU(ctx, sku)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, fmt.Errorf("product '%s' does not exist", sku)
	}

	kind, err := transition.Classify(p.Flags(), target)
	if err != nil {
		return false, err
	}
	if kind == transition.TypeNone {
		return false, nil
	}

	items, err := uc.components.FindByBaseSKU(ctx, sku)
	if err != nil {
		return false, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.pending != nil {
		return false, ErrTransitionPending
	}
	uc.pending = &transition.PendingTransition{
		SKU:               sku,
		Type:              kind,
		Target:            target,
		ExistingDataCount: len(items),
	}
	uc.logger.Debug("opened pending transition",
		zap.String("sku", sku),
		zap.String("type", string(kind)),
		zap.Int("existing_data_count", len(items)))
	return true, nil
}

func (uc *transitionUseCase) Pending() (transition.PendingTransition, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.pending == nil {
		return transition.PendingTransition{}, false
	}
	return *uc.pending, true
}

func (uc *transitionUseCase) ExecuteTransition(ctx context.Context) transition.Outcome {
	uc.mu.Lock()
	pending := uc.pending
	uc.mu.Unlock()
	if pending == nil {
		return transition.Outcome{Err: ErrNoPendingTransition}
	}

	result := uc.migrate(ctx, pending)
	if !result.Success {
		uc.logger.Warn("transition migration failed",
			zap.String("sku", pending.SKU),
			zap.String("type", string(pending.Type)),
			zap.Strings("errors", result.Errors))
		return transition.Outcome{
			Message: strings.Join(result.Errors, "; "),
			Err:     fmt.Errorf("migration failed for '%s'", pending.SKU),
		}
	}

	// The new flags are persisted only now, after the data moved.
	if err := uc.persistFlags(ctx, pending.SKU, pending.Target); err != nil {
		return transition.Outcome{
			Message: fmt.Sprintf("migration succeeded but the product flags could not be saved: %v", err),
			Err:     err,
		}
	}

	uc.mu.Lock()
	uc.pending = nil
	uc.mu.Unlock()

	uc.logger.Info("transition executed",
		zap.String("sku", pending.SKU),
		zap.String("type", string(pending.Type)),
		zap.Int("migrated_items", result.MigratedItemsCount))
	return transition.Outcome{
		Success: true,
		Message: fmt.Sprintf("%s completed for '%s', %d item(s) affected", pending.Type, pending.SKU, result.MigratedItemsCount),
	}
}

func (uc *transitionUseCase) CancelTransition() {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.pending = nil
}

func (uc *transitionUseCase) migrate(ctx context.Context, pending *transition.PendingTransition) migration.Result {
	switch pending.Type {
	case transition.TypeEnableComposite:
		// A simple product has no dependent data to move.
		return migration.Result{Success: true}
	case transition.TypeEnableVariations:
		return uc.migrator.CompositeToVariations(ctx, pending.SKU)
	case transition.TypeDisableVariations:
		return uc.migrator.VariationsToComposite(ctx, pending.SKU, migration.StrategyFirstVariation)
	case transition.TypeDisableComposite:
		return uc.migrator.DiscardCompositeData(ctx, pending.SKU)
	}
	return migration.Result{Errors: []string{fmt.Sprintf("no migration for transition '%s'", pending.Type)}}
}

func (uc *transitionUseCase) persistFlags(ctx context.Context, sku string, target model.StructureFlags) error {
	p, err := uc.products.FindBySKU(ctx, sku)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("product '%s' disappeared during migration", sku)
	}
	updated, err := p.Update(model.ProductPatch{
		IsComposite:  &target.IsComposite,
		HasVariation: &target.HasVariation,
	})
	if err != nil {
		return err
	}
	return uc.products.Update(ctx, updated)
}
