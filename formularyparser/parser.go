package formularyparser

import (
	"github.com/ehhop/formulary-reconciler/formularyparser/entities"
	"github.com/ehhop/formulary-reconciler/interfaces"
)

// Compile-time check to ensure DocumentParser implements the Parser interface
var _ interfaces.Parser = (*DocumentParser)(nil)

// DocumentParser implements the Parser interface
type DocumentParser struct{}

// NewDocumentParser creates a new DocumentParser instance
func NewDocumentParser() *DocumentParser {
	return &DocumentParser{}
}

// ParseFormulary implements the Parser interface
func (p *DocumentParser) ParseFormulary(text string) (*entities.Formulary, error) {
	return ParseFormulary(text)
}

// ParseInvoice implements the Parser interface
func (p *DocumentParser) ParseInvoice(text string) ([]entities.InvoiceLineItem, []*entities.ParseError, error) {
	return ParseInvoice(text)
}

// Serialize implements the Parser interface
func (p *DocumentParser) Serialize(formulary *entities.Formulary) string {
	return Serialize(formulary)
}
