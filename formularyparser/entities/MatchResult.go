package entities

// MatchPair pairs an invoice line item with the formulary record and the
// specific dose entry it resolved to.
type MatchPair struct {
	Record    *DrugRecord
	DoseIndex int
	Item      InvoiceLineItem
}

// MatchResult is the outcome of resolving every invoice line item against the
// formulary. All slices preserve invoice input order.
type MatchResult struct {
	Matched  []MatchPair       // items that resolved to a formulary dose entry
	NewDrugs []InvoiceLineItem // drug name unknown to the formulary
	NewDoses []InvoiceLineItem // known drug, but no matching dose entry
	Warnings []*ParseError     // duplicate formulary keys, first occurrence wins
}
