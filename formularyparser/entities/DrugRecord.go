package entities

import "github.com/shopspring/decimal"

// DosePrice is one dose/cost pair on a formulary entry. Dose is free-form
// ("200mg", "topical") or empty when the drug has no dose distinction.
type DosePrice struct {
	Dose        string          `json:"dose"`
	CostPerDose decimal.Decimal `json:"costPerDose"`
}

// DrugRecord is the canonical record both document sources are parsed into.
// Category, Subcategory, Approved and Name are immutable after parsing; only
// the cost side of Doses may be rewritten by reconciliation.
type DrugRecord struct {
	Category    string      `json:"category"`
	Subcategory string      `json:"subcategory"`
	Name        string      `json:"name"`
	Approved    bool        `json:"approved"`
	Doses       []DosePrice `json:"doses"`
	SourceOrder int         `json:"sourceOrder"`

	// Formatting carried from the source line so the serializer can reproduce
	// the document's conventions. Not part of the canonical record.
	Prefix     string `json:"-"` // "> " on blockquoted entries, "" otherwise
	DollarSign bool   `json:"-"` // costs carried a "$" in the source
}

// Formulary is an ordered formulary document: every drug record in original
// order plus the verbatim lines that preceded the first category heading.
type Formulary struct {
	Preamble []string     `json:"preamble"`
	Records  []DrugRecord `json:"records"`
}
