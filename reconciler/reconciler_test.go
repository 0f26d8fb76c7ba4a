package reconciler

import (
	"testing"

	"github.com/ehhop/formulary-reconciler/formularyparser/entities"
)

func TestReconcileUpdatesCost(t *testing.T) {
	formulary := testFormulary()
	engine := New(false)
	items := []entities.InvoiceLineItem{
		{Name: "Ibuprofen", Dose: "200mg", CostPerDose: money("0.75"), Row: 1},
	}

	changes := engine.Reconcile(engine.Match(formulary, items))

	if len(changes) != 1 {
		t.Fatalf("Expected 1 change, got %d", len(changes))
	}
	change := changes[0]
	if change.Drug != "IBUPROFEN" || change.Dose != "200mg" {
		t.Errorf("Unexpected change target: %+v", change)
	}
	if change.OldCost.StringFixed(2) != "0.50" || change.NewCost.StringFixed(2) != "0.75" {
		t.Errorf("Unexpected change amounts: %s -> %s", change.OldCost.StringFixed(2), change.NewCost.StringFixed(2))
	}

	// Record mutated in place, everything else untouched
	record := formulary.Records[0]
	if record.Doses[0].CostPerDose.StringFixed(2) != "0.75" {
		t.Errorf("Expected in-place cost update, got %s", record.Doses[0].CostPerDose.StringFixed(2))
	}
	if record.Doses[1].CostPerDose.StringFixed(2) != "0.90" {
		t.Errorf("Expected other doses untouched, got %s", record.Doses[1].CostPerDose.StringFixed(2))
	}
	if record.Category != "ANALGESICS" || record.Subcategory != "Oral" || record.Name != "IBUPROFEN" {
		t.Errorf("Expected non-cost fields immutable, got %+v", record)
	}
}

func TestReconcileNoOpOnEqualCosts(t *testing.T) {
	formulary := testFormulary()
	engine := New(false)
	items := []entities.InvoiceLineItem{
		{Name: "Ibuprofen", Dose: "200mg", CostPerDose: money("0.50"), Row: 1},
		{Name: "Amlodipine", CostPerDose: money("0.25"), Row: 2},
	}

	changes := engine.Reconcile(engine.Match(formulary, items))

	if len(changes) != 0 {
		t.Errorf("Expected no changes for equal costs, got %+v", changes)
	}
}

func TestReconcileExactDecimalEquality(t *testing.T) {
	formulary := testFormulary()
	engine := New(false)
	// 0.5 and 0.50 are the same money value; no change must be reported
	items := []entities.InvoiceLineItem{
		{Name: "Ibuprofen", Dose: "200mg", CostPerDose: money("0.5"), Row: 1},
	}

	changes := engine.Reconcile(engine.Match(formulary, items))
	if len(changes) != 0 {
		t.Errorf("Expected 0.5 to equal 0.50 exactly, got %+v", changes)
	}
}

func TestReconcileDuplicateRowsLastWins(t *testing.T) {
	formulary := testFormulary()
	engine := New(false)
	items := []entities.InvoiceLineItem{
		{Name: "Ibuprofen", Dose: "200mg", CostPerDose: money("12.50"), Row: 1},
		{Name: "Ibuprofen", Dose: "200mg", CostPerDose: money("13.00"), Row: 2},
	}

	changes := engine.Reconcile(engine.Match(formulary, items))

	if len(changes) != 1 {
		t.Fatalf("Expected a single change for duplicate rows, got %d", len(changes))
	}
	if changes[0].NewCost.StringFixed(2) != "13.00" {
		t.Errorf("Expected last row to win, got %s", changes[0].NewCost.StringFixed(2))
	}
	if changes[0].OldCost.StringFixed(2) != "0.50" {
		t.Errorf("Expected original formulary cost as old value, got %s", changes[0].OldCost.StringFixed(2))
	}
	if formulary.Records[0].Doses[0].CostPerDose.StringFixed(2) != "13.00" {
		t.Errorf("Expected final cost 13.00, got %s", formulary.Records[0].Doses[0].CostPerDose.StringFixed(2))
	}
}

func TestReconcileDuplicateRowsRestoreOriginal(t *testing.T) {
	formulary := testFormulary()
	engine := New(false)
	items := []entities.InvoiceLineItem{
		{Name: "Ibuprofen", Dose: "200mg", CostPerDose: money("0.99"), Row: 1},
		{Name: "Ibuprofen", Dose: "200mg", CostPerDose: money("0.50"), Row: 2},
	}

	changes := engine.Reconcile(engine.Match(formulary, items))
	if len(changes) != 0 {
		t.Errorf("Expected no change when the last row restores the original cost, got %+v", changes)
	}
}

func TestReconcileBlacklistedByDefault(t *testing.T) {
	formulary := testFormulary()
	engine := New(false)
	items := []entities.InvoiceLineItem{
		{Name: "Ketorolac", Dose: "10mg", CostPerDose: money("6.00"), Row: 1},
	}

	changes := engine.Reconcile(engine.Match(formulary, items))

	if len(changes) != 1 {
		t.Fatalf("Expected blacklisted drug to be reconciled by default, got %d changes", len(changes))
	}
	if formulary.Records[1].Doses[0].CostPerDose.StringFixed(2) != "6.00" {
		t.Errorf("Expected cost update, got %s", formulary.Records[1].Doses[0].CostPerDose.StringFixed(2))
	}
}

func TestReconcileSkipUnapproved(t *testing.T) {
	formulary := testFormulary()
	engine := New(true)
	items := []entities.InvoiceLineItem{
		{Name: "Ketorolac", Dose: "10mg", CostPerDose: money("6.00"), Row: 1},
		{Name: "Ibuprofen", Dose: "200mg", CostPerDose: money("0.75"), Row: 2},
	}

	changes := engine.Reconcile(engine.Match(formulary, items))

	if len(changes) != 1 || changes[0].Drug != "IBUPROFEN" {
		t.Fatalf("Expected only the approved drug to change, got %+v", changes)
	}
	if formulary.Records[1].Doses[0].CostPerDose.StringFixed(2) != "5.00" {
		t.Errorf("Expected blacklisted cost unchanged, got %s", formulary.Records[1].Doses[0].CostPerDose.StringFixed(2))
	}
}

func TestReconcileIsConservative(t *testing.T) {
	formulary := testFormulary()
	before := len(formulary.Records)

	engine := New(false)
	items := []entities.InvoiceLineItem{
		{Name: "Ibuprofen", Dose: "200mg", CostPerDose: money("0.75"), Row: 1},
		{Name: "Acetaminophen", Dose: "500mg", CostPerDose: money("0.30"), Row: 2},
		{Name: "Ibuprofen", Dose: "800mg", CostPerDose: money("1.20"), Row: 3},
	}

	result := engine.Match(formulary, items)
	engine.Reconcile(result)

	if len(formulary.Records) != before {
		t.Errorf("Expected record count unchanged, got %d -> %d", before, len(formulary.Records))
	}
	for i, record := range formulary.Records {
		if record.SourceOrder != i {
			t.Errorf("Expected record order preserved at %d, got %d", i, record.SourceOrder)
		}
	}
}
