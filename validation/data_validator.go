// Package validation provides canonical-record validation for the formulary
// reconciler.
package validation

import (
	"fmt"
	"strings"

	"github.com/ehhop/formulary-reconciler/formularyparser/entities"
	"github.com/ehhop/formulary-reconciler/interfaces"
	"github.com/ehhop/formulary-reconciler/logging"
)

const maxNameLength = 200
const maxFieldLength = 100

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateRecord checks if a drug record is internally consistent
func (v *DataValidatorImpl) ValidateRecord(record *entities.DrugRecord) error {
	if record == nil {
		return fmt.Errorf("record is nil")
	}

	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("empty drug name")
	}
	if len(record.Name) > maxNameLength {
		return fmt.Errorf("drug name too long: %d characters", len(record.Name))
	}
	if len(record.Category) > maxFieldLength {
		return fmt.Errorf("category too long for %s: %d characters", record.Name, len(record.Category))
	}
	if len(record.Subcategory) > maxFieldLength {
		return fmt.Errorf("subcategory too long for %s: %d characters", record.Name, len(record.Subcategory))
	}

	if len(record.Doses) == 0 {
		return fmt.Errorf("no dose/cost entries for %s", record.Name)
	}

	seen := make(map[string]bool)
	for _, dose := range record.Doses {
		if dose.CostPerDose.IsNegative() {
			return fmt.Errorf("negative cost for %s (%s)", record.Name, dose.Dose)
		}
		key := strings.ToLower(strings.TrimSpace(dose.Dose))
		if seen[key] {
			return fmt.Errorf("duplicate dose %q for %s", dose.Dose, record.Name)
		}
		seen[key] = true
	}

	return nil
}

// ValidateFormulary validates a whole record set, collecting violations as
// warnings. Invalid records stay in the document so the output never loses
// entries; they are reported rather than repaired.
func (v *DataValidatorImpl) ValidateFormulary(formulary *entities.Formulary) []error {
	if formulary == nil {
		return []error{fmt.Errorf("formulary is nil")}
	}

	var violations []error
	for i := range formulary.Records {
		if err := v.ValidateRecord(&formulary.Records[i]); err != nil {
			violations = append(violations, fmt.Errorf("record %d: %w", formulary.Records[i].SourceOrder, err))
		}
	}

	if len(violations) > 0 {
		logging.Warn("Formulary validation found issues",
			"violations", len(violations),
			"records_checked", len(formulary.Records))
	}

	return violations
}
