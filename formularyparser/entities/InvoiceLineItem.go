package entities

import "github.com/shopspring/decimal"

// InvoiceLineItem is one data row of an invoice document. Invoices carry no
// category or approval information; that context only exists once the item is
// matched against a formulary record.
type InvoiceLineItem struct {
	Name        string          `json:"name"`
	Dose        string          `json:"dose"`
	CostPerDose decimal.Decimal `json:"costPerDose"`
	Row         int             `json:"row"` // 1-based data row number, for reporting
}
