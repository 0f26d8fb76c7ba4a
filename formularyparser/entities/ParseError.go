package entities

import "fmt"

// ErrorKind classifies parse and matching problems.
type ErrorKind string

const (
	// MalformedEntry is a formulary line that cannot be parsed. Fatal to the
	// formulary parse.
	MalformedEntry ErrorKind = "malformed_entry"
	// MissingRequiredColumn means the invoice header lacks the drug-name or
	// cost column. Fatal to the invoice parse.
	MissingRequiredColumn ErrorKind = "missing_required_column"
	// InvalidCost is a single invoice row whose cost cell cannot be parsed.
	// The row is skipped; the parse continues.
	InvalidCost ErrorKind = "invalid_cost"
	// DuplicateFormularyKey means two formulary entries share a match key.
	// Warning only; the first occurrence wins for matching.
	DuplicateFormularyKey ErrorKind = "duplicate_formulary_key"
)

// ParseError carries enough context to locate and fix the offending source
// line or row. Line is the 1-based formulary line number, Row the 1-based
// invoice data row number; either may be zero when not applicable.
type ParseError struct {
	Kind ErrorKind
	Line int
	Row  int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	where := ""
	switch {
	case e.Line > 0:
		where = fmt.Sprintf(" at line %d", e.Line)
	case e.Row > 0:
		where = fmt.Sprintf(" at row %d", e.Row)
	}
	msg := fmt.Sprintf("%s%s", e.Kind, where)
	if e.Text != "" {
		msg += fmt.Sprintf(": %q", e.Text)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
