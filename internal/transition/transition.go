// Package transition classifies product structure changes and orchestrates
// the migration they require before the new flags may be persisted.
package transition

import (
	"errors"
	"fmt"

	"github.com/mercata/catalog-engine/internal/model"
)

// Type names the data migration a flag change requires.
type Type string

const (
	TypeNone              Type = "none"
	TypeEnableComposite   Type = "enable-composite"
	TypeEnableVariations  Type = "enable-variations"
	TypeDisableVariations Type = "disable-variations"
	TypeDisableComposite  Type = "disable-composite"
)

// ErrUnsupportedTransition marks a flag change the engine has no migration
// for. It indicates the caller allowed an invalid edit, so it propagates as
// an error rather than a soft result.
var ErrUnsupportedTransition = errors.New("unsupported product structure transition")

// Classify maps a (current, target) flag pair to the transition it
// requires. An unchanged target is TypeNone; any combination outside the
// decision table is ErrUnsupportedTransition, never a silent no-op.
func Classify(current, target model.StructureFlags) (Type, error) {
	if current == target {
		return TypeNone, nil
	}
	switch {
	case !current.IsComposite && !current.HasVariation && target.IsComposite && !target.HasVariation:
		return TypeEnableComposite, nil
	case current.IsComposite && !current.HasVariation && target.IsComposite && target.HasVariation:
		return TypeEnableVariations, nil
	case current.IsComposite && current.HasVariation && target.IsComposite && !target.HasVariation:
		return TypeDisableVariations, nil
	case current.IsComposite && !target.IsComposite && !target.HasVariation:
		return TypeDisableComposite, nil
	}
	return "", fmt.Errorf("%w: composite %t->%t, variation %t->%t",
		ErrUnsupportedTransition,
		current.IsComposite, target.IsComposite,
		current.HasVariation, target.HasVariation)
}
