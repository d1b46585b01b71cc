// Package columns canonicalizes the headers of the three scorecard
// sheets. Workbooks arrive with whatever spellings their authors use
// ("due date", "eta", "rag", ...); normalizing them on load means the
// quality checker and scorecard only ever see canonical column names.
package columns

import (
	"strings"

	"github.com/openpmo/scorecard/internal/domain/model"
)

// Canonical sheet names of the scorecard layout.
const (
	PortfolioSheet  = "Portfolio"
	MilestonesSheet = "Milestones"
	RisksSheet      = "Risks"
)

// Portfolio is the canonical portfolio header set, in order.
var Portfolio = []string{
	"Initiative", "Workstream", "Owner", "Health", "Percent Complete",
	"Launch Date", "Target Date", "Budget", "Actual Spend", "Status Summary",
}

// Milestones is the canonical milestone header set, in order.
var Milestones = []string{
	"Initiative", "Milestone", "Target Date", "Status", "Owner", "Notes",
}

// Risks is the canonical risk header set, in order.
var Risks = []string{
	"Initiative", "Risk", "Impact", "Probability", "Status", "Mitigation", "Owner",
}

// synonyms maps each canonical column to the alias headers accepted for
// it, per sheet. Matching is case-insensitive after trimming.
var synonyms = map[string]map[string][]string{
	PortfolioSheet: {
		"Initiative":       {"project", "project name", "initiative name"},
		"Workstream":       {"pillar", "tower", "portfolio"},
		"Owner":            {"lead", "manager", "pm"},
		"Health":           {"rag", "status", "overall status"},
		"Percent Complete": {"percent complete", "% complete", "progress", "progress (%)"},
		"Launch Date":      {"start date", "kickoff"},
		"Target Date":      {"end date", "go-live", "eta", "due date"},
		"Budget":           {"planned spend", "allocated budget", "budget (usd)"},
		"Actual Spend":     {"actuals", "actual spend", "spent"},
		"Status Summary":   {"executive summary", "headline", "status notes"},
	},
	MilestonesSheet: {
		"Initiative":  {"project", "project name"},
		"Milestone":   {"milestone name", "deliverable"},
		"Target Date": {"due date", "eta", "planned date"},
		"Status":      {"status", "rag"},
		"Owner":       {"lead", "manager", "pm"},
		"Notes":       {"comments", "context"},
	},
	RisksSheet: {
		"Initiative":  {"project", "project name"},
		"Risk":        {"risk description", "risk statement"},
		"Impact":      {"impact level", "impact rating"},
		"Probability": {"likelihood", "probability level"},
		"Status":      {"status", "rag"},
		"Mitigation":  {"mitigation plan", "response"},
		"Owner":       {"risk owner", "owner"},
	},
}

var canonicalOrder = map[string][]string{
	PortfolioSheet:  Portfolio,
	MilestonesSheet: Milestones,
	RisksSheet:      Risks,
}

// Canonical returns the canonical header set for a known scorecard sheet,
// or nil for sheets the layout says nothing about.
func Canonical(sheetName string) []string {
	return canonicalOrder[sheetName]
}

// Normalize rewrites a known sheet's headers in place: alias headers are
// renamed to their canonical column, missing canonical columns are
// backfilled empty, and columns are reordered canonical-first. Sheets
// outside the scorecard layout pass through untouched. A header whose
// canonical column already exists keeps its own name rather than
// producing a duplicate.
func Normalize(s *model.Sheet) {
	if s == nil {
		return
	}
	canonical := canonicalOrder[s.Name]
	if canonical == nil {
		return
	}
	lookup := lookupFor(s.Name, canonical)

	present := make(map[string]bool, len(s.Columns))
	for _, col := range s.Columns {
		present[col] = true
	}

	renames := make(map[string]string)
	for i, col := range s.Columns {
		canon, ok := lookup[normalizeHeader(col)]
		if !ok || canon == col || present[canon] {
			continue
		}
		renames[col] = canon
		present[canon] = true
		s.Columns[i] = canon
	}
	for _, row := range s.Rows {
		for old, canon := range renames {
			if v, ok := row[old]; ok {
				delete(row, old)
				row[canon] = v
			}
		}
	}

	// Backfill, then reorder: canonical columns first, extras after in
	// their existing order.
	ordered := make([]string, 0, len(s.Columns))
	for _, canon := range canonical {
		ordered = append(ordered, canon)
		present[canon] = true
	}
	isCanonical := make(map[string]bool, len(canonical))
	for _, canon := range canonical {
		isCanonical[canon] = true
	}
	for _, col := range s.Columns {
		if !isCanonical[col] {
			ordered = append(ordered, col)
		}
	}
	s.Columns = ordered
}

func lookupFor(sheetName string, canonical []string) map[string]string {
	lookup := make(map[string]string)
	for _, canon := range canonical {
		lookup[normalizeHeader(canon)] = canon
	}
	for canon, aliases := range synonyms[sheetName] {
		for _, alias := range aliases {
			lookup[normalizeHeader(alias)] = canon
		}
	}
	return lookup
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
