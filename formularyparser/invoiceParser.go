package formularyparser

import (
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/ehhop/formulary-reconciler/formularyparser/entities"
	"github.com/ehhop/formulary-reconciler/logging"
)

// Header names accepted for each invoice field, matched case-insensitively.
var (
	nameColumns = []string{"name", "drug", "drug name", "drug_name", "drugname", "item", "item name", "description"}
	costColumns = []string{"cost", "cost per dose", "cost_per_dose", "costpd", "cost pd", "unit cost", "unit price", "price"}
	doseColumns = []string{"dose", "dosage", "strength"}
)

// ParseInvoice parses invoice CSV text into line items. A missing required
// column aborts the parse; a row with an unparseable cost is skipped and
// reported, and parsing continues (one bad purchase line must not discard the
// whole invoice).
func ParseInvoice(text string) ([]entities.InvoiceLineItem, []*entities.ParseError, error) {
	// Vendor billing exports are frequently Windows-1252 rather than UTF-8
	if !utf8.ValidString(text) {
		decoded, err := charmap.Windows1252.NewDecoder().String(text)
		if err == nil {
			text = decoded
		}
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, &entities.ParseError{
			Kind: entities.MissingRequiredColumn,
			Text: "empty invoice document",
			Err:  err,
		}
	}

	nameCol := findColumn(header, nameColumns)
	costCol := findColumn(header, costColumns)
	doseCol := findColumn(header, doseColumns)

	if nameCol == -1 {
		return nil, nil, &entities.ParseError{
			Kind: entities.MissingRequiredColumn,
			Text: "drug name column not found in header: " + strings.Join(header, ", "),
		}
	}
	if costCol == -1 {
		return nil, nil, &entities.ParseError{
			Kind: entities.MissingRequiredColumn,
			Text: "cost column not found in header: " + strings.Join(header, ", "),
		}
	}

	var items []entities.InvoiceLineItem
	var rowErrors []*entities.ParseError

	rowNumber := 0
	skippedDecorativeRows := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, &entities.ParseError{
				Kind: entities.InvalidCost,
				Row:  rowNumber + 1,
				Text: "invoice is not valid CSV",
				Err:  err,
			}
		}
		rowNumber++

		name := strings.TrimSpace(cell(row, nameCol))
		rawCost := strings.TrimSpace(cell(row, costCol))

		// Billing exports pad data with section headers and total lines;
		// rows carrying neither a name nor a cost are not errors
		if name == "" && rawCost == "" {
			skippedDecorativeRows++
			continue
		}

		cost, err := parseMoney(rawCost)
		if err != nil || cost.IsNegative() {
			rowErrors = append(rowErrors, &entities.ParseError{
				Kind: entities.InvalidCost,
				Row:  rowNumber,
				Text: rawCost,
				Err:  err,
			})
			continue
		}

		item := entities.InvoiceLineItem{
			Name:        name,
			CostPerDose: cost,
			Row:         rowNumber,
		}
		if doseCol != -1 {
			item.Dose = strings.TrimSpace(cell(row, doseCol))
		}
		items = append(items, item)
	}

	if skippedDecorativeRows > 0 || len(rowErrors) > 0 {
		logging.Info("Invoice skip statistics",
			"decorative_rows", skippedDecorativeRows,
			"invalid_cost_rows", len(rowErrors),
			"total_rows", rowNumber,
			"items_parsed", len(items))
	}

	return items, rowErrors, nil
}

func findColumn(header []string, accepted []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, a := range accepted {
			if h == a {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// parseMoney strips currency symbols and thousand separators before decimal
// parsing. "1,234.50" and "$0.75" both parse; the amounts stay exact.
func parseMoney(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", "€", "", "£", "", ",", "", " ", "").Replace(s)
	return decimal.NewFromString(cleaned)
}
