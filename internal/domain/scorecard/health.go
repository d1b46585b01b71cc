package scorecard

import "strings"

// Canonical health categories, worst first. The order doubles as the
// display order for health breakdowns.
var HealthOrder = []string{
	"At Risk",
	"Watch",
	"On Hold",
	"Not Started",
	"On Track",
	"Complete",
	"Unknown",
}

// CategorizeHealth maps a raw health or RAG label onto one of the
// canonical categories. Unrecognized input maps to "Unknown".
func CategorizeHealth(raw string) string {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return "Unknown"
	}
	switch text {
	case "green", "on track", "good":
		return "On Track"
	case "yellow", "amber", "watch", "caution":
		return "Watch"
	case "red", "critical", "off track", "blocked":
		return "At Risk"
	}
	switch {
	case strings.Contains(text, "hold"):
		return "On Hold"
	case strings.Contains(text, "complete"), strings.Contains(text, "done"), strings.Contains(text, "closed"):
		return "Complete"
	case strings.Contains(text, "not started"), text == "tbd":
		return "Not Started"
	}
	return "Unknown"
}

// HealthBreakdown counts rows per canonical health category, in HealthOrder.
func HealthBreakdown(counts []StatusCount) []StatusCount {
	byCategory := make(map[string]int, len(HealthOrder))
	for _, c := range counts {
		label := c.Label
		if label == UnspecifiedLabel {
			label = ""
		}
		byCategory[CategorizeHealth(label)] += c.Count
	}
	out := make([]StatusCount, 0, len(HealthOrder))
	for _, category := range HealthOrder {
		if n := byCategory[category]; n > 0 {
			out = append(out, StatusCount{Label: category, Count: n})
		}
	}
	return out
}
