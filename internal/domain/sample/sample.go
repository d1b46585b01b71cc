// Package sample builds the built-in example scorecard workbook behind
// the template download and the gen-workbook CLI.
package sample

import (
	"time"

	"github.com/openpmo/scorecard/internal/domain/columns"
	"github.com/openpmo/scorecard/internal/domain/model"
)

// Sheet names of the canonical scorecard layout.
const (
	PortfolioSheet  = columns.PortfolioSheet
	MilestonesSheet = columns.MilestonesSheet
	RisksSheet      = columns.RisksSheet
)

// Canonical header sets, shared with the load-time normalizer.
var (
	PortfolioColumns = columns.Portfolio
	MilestoneColumns = columns.Milestones
	RiskColumns      = columns.Risks
)

// Workbook returns the sample program scorecard with dates positioned
// relative to today, so the overdue and upcoming views are never stale.
func Workbook(today time.Time) *model.Workbook {
	wb := model.NewWorkbook()
	wb.AddSheet(portfolio(today))
	wb.AddSheet(milestones(today))
	wb.AddSheet(risks())
	return wb
}

func portfolio(today time.Time) *model.Sheet {
	s := &model.Sheet{Name: PortfolioSheet, Columns: append([]string(nil), PortfolioColumns...)}
	add := func(initiative, workstream, owner, health string, pct float64, launch, target int, budget, spend float64, summary string) {
		s.AppendRow(model.Row{
			"Initiative":       model.Text(initiative),
			"Workstream":       model.Text(workstream),
			"Owner":            model.Text(owner),
			"Health":           model.Text(health),
			"Percent Complete": model.Number(pct),
			"Launch Date":      model.Date(today.AddDate(0, 0, launch)),
			"Target Date":      model.Date(today.AddDate(0, 0, target)),
			"Budget":           model.Number(budget),
			"Actual Spend":     model.Number(spend),
			"Status Summary":   model.Text(summary),
		})
	}
	add("Digital Onboarding", "Experience", "A. Lopez", "Green", 72, -120, 40, 550000, 310000,
		"MVP in pilot; adoption tracking 15% above target.")
	add("Customer 360 Rollout", "CRM", "K. Chen", "Amber", 58, -95, 25, 430000, 260000,
		"Integration testing slipping; vendor patch due Friday.")
	add("Data Warehouse Migration", "Data", "R. Patel", "Red", 41, -60, 70, 620000, 180000,
		"Blockers on data quality gating migration cut-over.")
	add("Field Mobile App", "Operations", "J. Gomez", "Green", 86, -140, 20, 210000, 150000,
		"Field feedback positive; higher hardware costs under review.")
	add("Billing Modernization", "Finance", "S. Woods", "Amber", 49, -80, 55, 390000, 210000,
		"Dependency on pricing APIs; replan under way with Finance.")
	return s
}

func milestones(today time.Time) *model.Sheet {
	s := &model.Sheet{Name: MilestonesSheet, Columns: append([]string(nil), MilestoneColumns...)}
	add := func(initiative, milestone string, target int, status, owner, notes string) {
		s.AppendRow(model.Row{
			"Initiative":  model.Text(initiative),
			"Milestone":   model.Text(milestone),
			"Target Date": model.Date(today.AddDate(0, 0, target)),
			"Status":      model.Text(status),
			"Owner":       model.Text(owner),
			"Notes":       model.Text(notes),
		})
	}
	add("Digital Onboarding", "Self-service KYC live", 15, "Green", "A. Lopez",
		"Beta conversion at 92%. Final analytics QA this week.")
	add("Digital Onboarding", "Paper process sunset", 45, "Amber", "A. Lopez",
		"Dependency on contact center training completion.")
	add("Customer 360 Rollout", "CRM go-live (Phase 1)", 25, "Amber", "K. Chen",
		"Waiting on reference data clean-up from Data team.")
	add("Data Warehouse Migration", "Production cut-over", 70, "Red", "R. Patel",
		"Load testing blocked by missing anonymized dataset.")
	add("Field Mobile App", "iOS field release", 10, "Green", "J. Gomez",
		"Final sprint in progress; hardware rollout scheduled.")
	add("Billing Modernization", "Pricing rules migration", -5, "Red", "S. Woods",
		"Legacy platform defects delaying migration window.")
	return s
}

func risks() *model.Sheet {
	s := &model.Sheet{Name: RisksSheet, Columns: append([]string(nil), RiskColumns...)}
	add := func(initiative, risk, impact, probability, status, mitigation, owner string) {
		s.AppendRow(model.Row{
			"Initiative":  model.Text(initiative),
			"Risk":        model.Text(risk),
			"Impact":      model.Text(impact),
			"Probability": model.Text(probability),
			"Status":      model.Text(status),
			"Mitigation":  model.Text(mitigation),
			"Owner":       model.Text(owner),
		})
	}
	add("Customer 360 Rollout", "Vendor CRM patch may slip, delaying UAT sign-off.",
		"High", "Medium", "Mitigating", "Escalated with vendor; tracking hotfix build.", "K. Chen")
	add("Data Warehouse Migration", "Data quality issues could extend migration blackout.",
		"High", "High", "Open", "Profiling sprint and cleansing backlog with owners.", "R. Patel")
	add("Billing Modernization", "Pricing API throughput may not meet performance targets.",
		"Medium", "Medium", "Watching", "Load test this sprint; scale-out plan agreed with Infra.", "S. Woods")
	add("Field Mobile App", "Offline mode stability risk in low-connectivity regions.",
		"Medium", "Low", "Mitigating", "Targeted field pilots with telemetry instrumentation.", "J. Gomez")
	return s
}
