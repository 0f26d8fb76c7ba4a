package entities

import "github.com/shopspring/decimal"

// Change records one cost update applied to a formulary record.
type Change struct {
	Drug    string          `json:"drug"`
	Dose    string          `json:"dose"`
	OldCost decimal.Decimal `json:"oldCost"`
	NewCost decimal.Decimal `json:"newCost"`
}
