// Package reconciler matches invoice line items against formulary records by
// normalized (name, dose) key and applies invoice costs as ground truth.
package reconciler

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/ehhop/formulary-reconciler/formularyparser/entities"
	"github.com/ehhop/formulary-reconciler/logging"
)

var keyFolder = cases.Fold()

// normalize trims, case-folds and collapses internal whitespace.
func normalize(s string) string {
	return keyFolder.String(strings.Join(strings.Fields(s), " "))
}

// MatchKey returns the composite lookup key for a (name, dose) pair. The NUL
// separator cannot occur in either part, so keys never collide across fields.
func MatchKey(name, dose string) string {
	return normalize(name) + "\x00" + normalize(dose)
}

type doseRef struct {
	record    *entities.DrugRecord
	doseIndex int
}

// Match resolves every invoice line item against the formulary. Duplicate
// formulary keys surface as warnings and the first occurrence wins; absence
// of a match is a reportable fact, never an error. All result slices keep
// invoice input order.
func (e *Engine) Match(formulary *entities.Formulary, items []entities.InvoiceLineItem) *entities.MatchResult {
	result := &entities.MatchResult{}

	// Index the formulary once so each invoice item resolves in O(1)
	byKey := make(map[string]doseRef)
	byName := make(map[string]bool)
	for i := range formulary.Records {
		record := &formulary.Records[i]
		byName[normalize(record.Name)] = true
		for d := range record.Doses {
			key := MatchKey(record.Name, record.Doses[d].Dose)
			if first, exists := byKey[key]; exists {
				result.Warnings = append(result.Warnings, &entities.ParseError{
					Kind: entities.DuplicateFormularyKey,
					Text: record.Name + " (" + record.Doses[d].Dose + ") duplicates " + first.record.Name,
				})
				continue
			}
			byKey[key] = doseRef{record: record, doseIndex: d}
		}
	}

	for _, item := range items {
		if ref, ok := byKey[MatchKey(item.Name, item.Dose)]; ok {
			result.Matched = append(result.Matched, entities.MatchPair{
				Record:    ref.record,
				DoseIndex: ref.doseIndex,
				Item:      item,
			})
			continue
		}
		if byName[normalize(item.Name)] {
			result.NewDoses = append(result.NewDoses, item)
			continue
		}
		result.NewDrugs = append(result.NewDrugs, item)
	}

	logging.Info("Invoice matching completed",
		"matched", len(result.Matched),
		"new_drugs", len(result.NewDrugs),
		"new_doses", len(result.NewDoses),
		"duplicate_keys", len(result.Warnings))

	return result
}
