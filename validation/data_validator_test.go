package validation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ehhop/formulary-reconciler/formularyparser/entities"
)

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func validRecord() entities.DrugRecord {
	return entities.DrugRecord{
		Category: "ANALGESICS",
		Name:     "IBUPROFEN",
		Approved: true,
		Doses: []entities.DosePrice{
			{Dose: "200mg", CostPerDose: money("0.50")},
			{Dose: "400mg", CostPerDose: money("0.90")},
		},
	}
}

func TestValidateRecord(t *testing.T) {
	validator := NewDataValidator()

	record := validRecord()
	if err := validator.ValidateRecord(&record); err != nil {
		t.Errorf("Expected valid record, got: %v", err)
	}
}

func TestValidateRecordRejectsBadRecords(t *testing.T) {
	validator := NewDataValidator()

	cases := []struct {
		name   string
		mutate func(*entities.DrugRecord)
	}{
		{"empty name", func(r *entities.DrugRecord) { r.Name = "  " }},
		{"no doses", func(r *entities.DrugRecord) { r.Doses = nil }},
		{"negative cost", func(r *entities.DrugRecord) { r.Doses[0].CostPerDose = money("-1.00") }},
		{"duplicate dose", func(r *entities.DrugRecord) { r.Doses[1].Dose = "200MG " }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := validRecord()
			tc.mutate(&record)
			if err := validator.ValidateRecord(&record); err == nil {
				t.Error("Expected a validation error")
			}
		})
	}

	if err := validator.ValidateRecord(nil); err == nil {
		t.Error("Expected an error for a nil record")
	}
}

func TestValidateFormulary(t *testing.T) {
	validator := NewDataValidator()

	good := validRecord()
	bad := validRecord()
	bad.Name = ""
	bad.SourceOrder = 1

	formulary := &entities.Formulary{Records: []entities.DrugRecord{good, bad}}

	violations := validator.ValidateFormulary(formulary)
	if len(violations) != 1 {
		t.Fatalf("Expected 1 violation, got %d", len(violations))
	}
}

func TestValidateFormularyNil(t *testing.T) {
	validator := NewDataValidator()

	if violations := validator.ValidateFormulary(nil); len(violations) != 1 {
		t.Errorf("Expected a violation for a nil formulary, got %d", len(violations))
	}
}
