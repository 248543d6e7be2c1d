package transition

import (
	"context"

	"github.com/mercata/catalog-engine/internal/model"
)

// PendingTransition is the open confirmation context between a check and
// its execution. ExistingDataCount is the number of dependent composition
// items, across the product's own compositions and each variation's, so
// the caller can warn about destructive impact.
type PendingTransition struct {
	SKU               string
	Type              Type
	Target            model.StructureFlags
	ExistingDataCount int
}

// Outcome is what execution reports back to the caller.
type Outcome struct {
	Success bool
	Message string
	Err     error
}

type UseCase interface {
	// CheckTransitionRequired reports whether changing the product's flags
	// to target needs a migration. When it does, a pending transition is
	// opened and must be executed or cancelled before checking another.
	CheckTransitionRequired(ctx context.Context, sku string, target model.StructureFlags) (bool, error)
	Pending() (PendingTransition, bool)
	// ExecuteTransition runs the pending migration and persists the new
	// flags only after the migration reports success. On failure the
	// pending transition stays open so the caller may retry or cancel.
	ExecuteTransition(ctx context.Context) Outcome
	CancelTransition()
}
