// Package interfaces defines core abstractions for the formulary reconciler
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"fmt"
	"strings"

	"github.com/ehhop/formulary-reconciler/formularyparser/entities"
)

// Parser defines the contract for parsing the two source documents and for
// regenerating formulary markdown.
type Parser interface {
	// ParseFormulary parses formulary markdown into an ordered record set.
	// A malformed entry aborts the parse.
	ParseFormulary(text string) (*entities.Formulary, error)

	// ParseInvoice parses invoice CSV into line items. Row-level cost errors
	// are returned alongside the parsed items; only a missing required
	// column aborts the parse.
	ParseInvoice(text string) ([]entities.InvoiceLineItem, []*entities.ParseError, error)

	// Serialize regenerates formulary markdown from a record set.
	Serialize(formulary *entities.Formulary) string
}

// Reconciler defines the contract for matching invoice line items against the
// formulary and applying invoice costs as ground truth.
type Reconciler interface {
	Match(formulary *entities.Formulary, items []entities.InvoiceLineItem) *entities.MatchResult
	Reconcile(result *entities.MatchResult) []entities.Change
}

// DataValidator defines the contract for canonical-record validation.
type DataValidator interface {
	// ValidateRecord checks one record for integrity violations
	ValidateRecord(record *entities.DrugRecord) error

	// ValidateFormulary checks a whole record set and collects violations
	// as warnings rather than failing the run
	ValidateFormulary(formulary *entities.Formulary) []error
}

// ReconcileReport aggregates everything one run surfaces to the caller:
// applied changes, invoice items the formulary does not know, and the
// warnings collected along the way.
type ReconcileReport struct {
	Changes   []entities.Change
	NewDrugs  []entities.InvoiceLineItem
	NewDoses  []entities.InvoiceLineItem
	RowErrors []*entities.ParseError
	Warnings  []*entities.ParseError
}

// Summary renders the report for CLI and log output.
func (r *ReconcileReport) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Changes applied: %d\n", len(r.Changes))
	for _, c := range r.Changes {
		dose := c.Dose
		if dose == "" {
			dose = "-"
		}
		fmt.Fprintf(&b, "  %s (%s): %s -> %s\n", c.Drug, dose, c.OldCost.StringFixed(2), c.NewCost.StringFixed(2))
	}

	if len(r.NewDrugs) > 0 {
		fmt.Fprintf(&b, "Unrecognized drugs: %d\n", len(r.NewDrugs))
		for _, item := range r.NewDrugs {
			fmt.Fprintf(&b, "  row %d: %s (%s)\n", item.Row, item.Name, item.Dose)
		}
	}

	if len(r.NewDoses) > 0 {
		fmt.Fprintf(&b, "New doses for known drugs: %d\n", len(r.NewDoses))
		for _, item := range r.NewDoses {
			fmt.Fprintf(&b, "  row %d: %s (%s)\n", item.Row, item.Name, item.Dose)
		}
	}

	if len(r.RowErrors) > 0 {
		fmt.Fprintf(&b, "Invoice rows skipped: %d\n", len(r.RowErrors))
		for _, e := range r.RowErrors {
			fmt.Fprintf(&b, "  %s\n", e.Error())
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "Warnings: %d\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "  %s\n", w.Error())
		}
	}

	return b.String()
}
