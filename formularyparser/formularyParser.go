// Package formularyparser parses the EHHapp formulary markdown and monthly
// invoice documents into canonical drug records, and serializes records back
// to the formulary markdown dialect.
package formularyparser

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ehhop/formulary-reconciler/formularyparser/entities"
	"github.com/ehhop/formulary-reconciler/logging"
)

// Formulary grammar:
//
//	* CATEGORY
//	> ~DRUG_NAME | $COST_pD (DOSE) | SUBCATEGORY
//
// The "> " prefix and the "$" are optional and preserved per record. A "~"
// immediately before the drug name marks the drug as blacklisted. The cost
// field may hold several $COST (DOSE) groups, or a single bare cost when the
// drug has no dose distinction.
var (
	doseCostPattern  = regexp.MustCompile(`(\$?)(\d+(?:\.\d+)?)\s*\(([^)]*)\)`)
	bareCostPattern  = regexp.MustCompile(`^(\$?)(\d+(?:\.\d+)?)$`)
	costRangePattern = regexp.MustCompile(`\$?\d+(?:\.\d+)?\s*-\s*\$?\d+`)
)

const blacklistMarker = "~"

// ParseFormulary parses formulary markdown text into an ordered record set.
// A malformed drug entry aborts the whole parse: a partially parsed formulary
// must never be reconciled and re-emitted.
func ParseFormulary(text string) (*entities.Formulary, error) {
	formulary := &entities.Formulary{}

	scanner := bufio.NewScanner(strings.NewReader(text))

	category := ""
	lineCount := 0
	skippedBlankLines := 0
	skippedUnknownLines := 0

	for scanner.Scan() {
		lineCount++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			if category == "" && len(formulary.Records) == 0 {
				formulary.Preamble = append(formulary.Preamble, line)
			} else {
				skippedBlankLines++
			}
			continue
		}

		// Category heading: "* CATEGORY"
		if strings.HasPrefix(trimmed, "* ") {
			category = strings.TrimSpace(trimmed[2:])
			continue
		}

		// Drug entries are the only pipe-delimited lines in the document
		if strings.Contains(trimmed, "|") {
			record, err := parseDrugLine(line, lineCount, len(formulary.Records), category)
			if err != nil {
				return nil, err
			}
			formulary.Records = append(formulary.Records, record)
			continue
		}

		// Anything else before the first category is document preamble,
		// kept verbatim for re-serialization
		if category == "" && len(formulary.Records) == 0 {
			formulary.Preamble = append(formulary.Preamble, line)
			continue
		}

		skippedUnknownLines++
		logging.Debug("Skipping unrecognized formulary line", "line", lineCount, "text", trimmed)
	}

	if skippedBlankLines > 0 || skippedUnknownLines > 0 {
		logging.Info("Formulary skip statistics",
			"blank_lines", skippedBlankLines,
			"unknown_lines", skippedUnknownLines,
			"total_lines", lineCount,
			"records_parsed", len(formulary.Records))
	}

	return formulary, nil
}

// parseDrugLine parses one pipe-delimited formulary entry. Field order after
// the drug name is tolerated: the cost field is recognized by its grammar and
// the remaining non-empty field, if any, is the subcategory.
func parseDrugLine(line string, lineNumber, order int, category string) (entities.DrugRecord, error) {
	record := entities.DrugRecord{
		Category:    category,
		Approved:    true,
		SourceOrder: order,
	}

	body := line
	if strings.HasPrefix(strings.TrimLeft(body, " \t"), ">") {
		record.Prefix = "> "
		body = strings.TrimLeft(body, " \t")
		body = strings.TrimPrefix(body, ">")
		body = strings.TrimLeft(body, " ")
	}

	fields := strings.Split(body, "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	name := fields[0]
	if strings.HasPrefix(name, blacklistMarker) {
		record.Approved = false
		name = strings.TrimSpace(strings.TrimPrefix(name, blacklistMarker))
	}
	if name == "" {
		return record, &entities.ParseError{
			Kind: entities.MalformedEntry,
			Line: lineNumber,
			Text: line,
		}
	}
	record.Name = name

	costField := -1
	for i := 1; i < len(fields); i++ {
		if fields[i] == "" {
			continue
		}
		doses, dollar, ok := parseDoseCosts(fields[i])
		if ok {
			record.Doses = doses
			record.DollarSign = dollar
			costField = i
			break
		}
	}
	if costField == -1 {
		return record, &entities.ParseError{
			Kind: entities.MalformedEntry,
			Line: lineNumber,
			Text: line,
		}
	}

	for i := 1; i < len(fields); i++ {
		if i != costField && fields[i] != "" {
			record.Subcategory = fields[i]
			break
		}
	}

	return record, nil
}

// parseDoseCosts parses a dose/cost cluster: one or more "$COST (DOSE)"
// groups, or a single bare cost. Cost ranges ("$3-$5") are rejected; a range
// is not a decimal and guessing a value would silently corrupt prices.
func parseDoseCosts(field string) ([]entities.DosePrice, bool, bool) {
	if costRangePattern.MatchString(field) {
		return nil, false, false
	}

	if m := bareCostPattern.FindStringSubmatch(field); m != nil {
		cost, err := decimal.NewFromString(m[2])
		if err != nil {
			return nil, false, false
		}
		return []entities.DosePrice{{CostPerDose: cost}}, m[1] == "$", true
	}

	matches := doseCostPattern.FindAllStringSubmatchIndex(field, -1)
	if len(matches) == 0 {
		return nil, false, false
	}

	// Reject clusters with stray text between groups so that a garbled cost
	// field surfaces as MalformedEntry instead of a silently dropped price
	covered := 0
	dollar := false
	var doses []entities.DosePrice
	for _, m := range matches {
		between := field[covered:m[0]]
		if strings.Trim(between, " \t,;") != "" {
			return nil, false, false
		}
		covered = m[1]

		if field[m[2]:m[3]] == "$" {
			dollar = true
		}
		cost, err := decimal.NewFromString(field[m[4]:m[5]])
		if err != nil {
			return nil, false, false
		}
		doses = append(doses, entities.DosePrice{
			Dose:        strings.TrimSpace(field[m[6]:m[7]]),
			CostPerDose: cost,
		})
	}
	if strings.Trim(field[covered:], " \t,;") != "" {
		return nil, false, false
	}

	return doses, dollar, true
}
