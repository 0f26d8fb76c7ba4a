package formularyparser

import (
	"strings"

	"github.com/ehhop/formulary-reconciler/formularyparser/entities"
)

// Serialize regenerates formulary markdown from a record set: one heading per
// category in first-seen order, each category's entries in original source
// order. Serializing an unmodified parse re-parses to an identical record set.
func Serialize(formulary *entities.Formulary) string {
	var b strings.Builder

	for _, line := range formulary.Preamble {
		b.WriteString(line)
		b.WriteString("\n")
	}

	var categories []string
	byCategory := make(map[string][]*entities.DrugRecord)
	for i := range formulary.Records {
		record := &formulary.Records[i]
		if _, seen := byCategory[record.Category]; !seen {
			categories = append(categories, record.Category)
		}
		byCategory[record.Category] = append(byCategory[record.Category], record)
	}

	for i, category := range categories {
		if i > 0 {
			b.WriteString("\n")
		}
		if category != "" {
			b.WriteString("* ")
			b.WriteString(category)
			b.WriteString("\n")
		}
		for _, record := range byCategory[category] {
			b.WriteString(formatRecord(record))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func formatRecord(record *entities.DrugRecord) string {
	var b strings.Builder

	b.WriteString(record.Prefix)
	if !record.Approved {
		b.WriteString(blacklistMarker)
	}
	b.WriteString(record.Name)
	b.WriteString(" | ")

	for i, dose := range record.Doses {
		if i > 0 {
			b.WriteString(", ")
		}
		if record.DollarSign {
			b.WriteString("$")
		}
		b.WriteString(dose.CostPerDose.StringFixed(2))
		if dose.Dose != "" {
			b.WriteString(" (")
			b.WriteString(dose.Dose)
			b.WriteString(")")
		} else if len(record.Doses) > 1 {
			// keep the group grammar intact inside a multi-dose cluster
			b.WriteString(" ()")
		}
	}

	if record.Subcategory != "" {
		b.WriteString(" | ")
		b.WriteString(record.Subcategory)
	}

	return b.String()
}
