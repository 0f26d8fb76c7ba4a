package reconciler

import (
	"github.com/shopspring/decimal"

	"github.com/ehhop/formulary-reconciler/formularyparser/entities"
	"github.com/ehhop/formulary-reconciler/interfaces"
	"github.com/ehhop/formulary-reconciler/logging"
)

// Compile-time check to ensure Engine implements the Reconciler interface
var _ interfaces.Reconciler = (*Engine)(nil)

// Engine implements the Reconciler interface. Reconciliation never adds,
// removes or reorders formulary records; it only rewrites cost values.
type Engine struct {
	// SkipUnapproved leaves blacklisted drugs untouched even when their
	// invoice cost differs. Off by default: price integrity is independent
	// of approval status.
	SkipUnapproved bool
}

// New creates a reconciliation engine.
func New(skipUnapproved bool) *Engine {
	return &Engine{SkipUnapproved: skipUnapproved}
}

// Reconcile applies matched invoice costs to the formulary records in place
// and returns the resulting changes. When the same formulary dose matches
// several invoice rows, the last row in input order wins; a Change always
// reports the original formulary cost against the final value, so a row that
// restores the original cost yields no Change.
func (e *Engine) Reconcile(result *entities.MatchResult) []entities.Change {
	originals := make(map[doseRef]decimal.Decimal)

	for _, pair := range result.Matched {
		if e.SkipUnapproved && !pair.Record.Approved {
			continue
		}
		ref := doseRef{record: pair.Record, doseIndex: pair.DoseIndex}
		if _, touched := originals[ref]; !touched {
			originals[ref] = pair.Record.Doses[pair.DoseIndex].CostPerDose
		}
		pair.Record.Doses[pair.DoseIndex].CostPerDose = pair.Item.CostPerDose
	}

	var changes []entities.Change
	reported := make(map[doseRef]bool)
	for _, pair := range result.Matched {
		ref := doseRef{record: pair.Record, doseIndex: pair.DoseIndex}
		if reported[ref] {
			continue
		}
		reported[ref] = true

		original, touched := originals[ref]
		if !touched {
			// blacklisted and skipped
			continue
		}
		final := pair.Record.Doses[pair.DoseIndex].CostPerDose
		if !final.Equal(original) {
			changes = append(changes, entities.Change{
				Drug:    pair.Record.Name,
				Dose:    pair.Record.Doses[pair.DoseIndex].Dose,
				OldCost: original,
				NewCost: final,
			})
		}
	}

	logging.Info("Reconciliation completed",
		"matched_pairs", len(result.Matched),
		"changes", len(changes),
		"skip_unapproved", e.SkipUnapproved)

	return changes
}
