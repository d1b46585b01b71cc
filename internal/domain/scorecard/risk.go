package scorecard

import (
	"sort"
	"strconv"
	"strings"

	"github.com/openpmo/scorecard/internal/domain/model"
)

// Risk level scores on the canonical Low/Medium/High scale. Severity is
// impact times probability, so the worst cell of the risk matrix is 9.
const (
	criticalSeverity = 6
	topRiskCount     = 5
)

var riskLevelScores = map[string]int{
	"low":      1,
	"medium":   2,
	"med":      2,
	"high":     3,
	"critical": 3,
}

// RiskItem is one scored row of the risks sheet.
type RiskItem struct {
	Row         int    `json:"row"`
	Initiative  string `json:"initiative"`
	Risk        string `json:"risk"`
	Impact      string `json:"impact"`
	Probability string `json:"probability"`
	Severity    int    `json:"severity"`
}

// RiskPosture is the roll-up of the risks sheet: how many risks are
// logged, how many sit in the critical band, and the highest-severity
// entries.
type RiskPosture struct {
	Total    int        `json:"total"`
	Critical int        `json:"critical"`
	Top      []RiskItem `json:"top"`
}

// RiskLevel maps a raw impact or probability cell onto the canonical
// Low/Medium/High scale. Numeric grades collapse the same way: 1 and
// below is Low, 2 is Medium, 3 and up is High.
func RiskLevel(raw string) string {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return "Unknown"
	}
	if n, err := strconv.Atoi(text); err == nil {
		switch {
		case n <= 1:
			return "Low"
		case n == 2:
			return "Medium"
		default:
			return "High"
		}
	}
	for _, label := range []string{"low", "medium", "high"} {
		if strings.Contains(text, label) {
			return strings.ToUpper(label[:1]) + label[1:]
		}
	}
	if strings.Contains(text, "critical") || strings.Contains(text, "severe") {
		return "High"
	}
	return "Unknown"
}

// riskScore converts a canonical level to its matrix weight. Unknown
// levels weigh zero, so rows missing either axis never rank.
func riskScore(level string) int {
	return riskLevelScores[strings.ToLower(level)]
}

// SummarizeRisks scores every row of the risks sheet and rolls it up
// into a posture: severity = impact score x probability score, critical
// band at severity 6 and above, top entries ordered worst-first.
func SummarizeRisks(sheet *model.Sheet) RiskPosture {
	var posture RiskPosture
	if sheet == nil {
		return posture
	}

	items := make([]RiskItem, 0, len(sheet.Rows))
	for i := range sheet.Rows {
		impact := RiskLevel(sheet.Cell(i, "Impact").Raw())
		probability := RiskLevel(sheet.Cell(i, "Probability").Raw())
		item := RiskItem{
			Row:         i,
			Initiative:  sheet.Cell(i, "Initiative").Raw(),
			Risk:        sheet.Cell(i, "Risk").Raw(),
			Impact:      impact,
			Probability: probability,
			Severity:    riskScore(impact) * riskScore(probability),
		}
		items = append(items, item)
		if item.Severity >= criticalSeverity {
			posture.Critical++
		}
	}
	posture.Total = len(items)

	sort.SliceStable(items, func(a, b int) bool {
		if items[a].Severity != items[b].Severity {
			return items[a].Severity > items[b].Severity
		}
		if ia, ib := riskScore(items[a].Impact), riskScore(items[b].Impact); ia != ib {
			return ia > ib
		}
		return riskScore(items[a].Probability) > riskScore(items[b].Probability)
	})
	if len(items) > topRiskCount {
		items = items[:topRiskCount]
	}
	posture.Top = items
	return posture
}
