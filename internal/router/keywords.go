package router

import "strings"

// recencyKeywords indicate the task depends on current or fast-changing
// information and should use live retrieval.
var recencyKeywords = []string{
	"recent",
	"latest",
	"current",
	"today",
	"this week",
	"this month",
	"this year",
	"news",
	"now",
	"trend",
	"upcoming",
	"2024",
	"2025",
	"2026",
}

// complexityKeywords indicate a short task still needs more than quick
// reasoning over background knowledge.
var complexityKeywords = []string{
	"analyze",
	"analyse",
	"compare",
	"evaluate",
	"comprehensive",
	"in-depth",
	"research",
	"investigate",
	"survey",
	"state of the art",
}

// shortTaskLimit is the length under which a task without complexity
// keywords is considered simple enough for pure reasoning.
const shortTaskLimit = 120

func matchesAny(text string, keywords []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}
