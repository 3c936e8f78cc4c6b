package protocol

import (
	"strings"

	"github.com/Jolt-Capital/langelot/pkg/models"
)

// Tag names emitted by the decomposition and worker prompts.
const (
	TagApproach    = "approach"
	TagDescription = "description"
	TagAgent       = "agent"
	TagResult      = "result"
)

// ParseStrategies reads parallel sequences of approach, description and
// (when the hinting protocol variant is in use) agent tags from the
// decomposition response. Only complete tuples are kept: the sequences are
// truncated to the shortest one actually present, and trailing unmatched
// tags are dropped silently.
//
// When an agent tag carries an unrecognized literal the entry is kept with
// capability defaulted to reasoning, and a warning goes to log. When the
// response carries no agent tags at all (legacy decomposition), capabilities
// are left empty for the router to supply.
func ParseStrategies(text string, log Logger) []models.Strategy {
	approaches := ExtractAll(text, TagApproach)
	descriptions := ExtractAll(text, TagDescription)
	agents := ExtractAll(text, TagAgent)

	n := min(len(approaches), len(descriptions))
	hinted := len(agents) > 0
	if hinted {
		n = min(n, len(agents))
	}

	strategies := make([]models.Strategy, 0, n)
	for i := 0; i < n; i++ {
		s := models.Strategy{
			Approach:    approaches[i],
			Description: descriptions[i],
		}
		if hinted {
			capability, ok := models.ParseCapability(agents[i])
			if !ok {
				capability = models.CapabilityReasoning
				if log != nil {
					log.Logf("unrecognized agent type %q for approach %q, defaulting to %s",
						agents[i], s.Approach, capability)
				}
			}
			s.Capability = capability
		}
		strategies = append(strategies, s)
	}

	return strategies
}

// ParseResultBatch pairs raw worker responses with their approaches by
// position, truncating to the shorter of the two sequences. For each pair a
// single result tag is extracted, falling back to the full trimmed response
// when no such tag is present.
func ParseResultBatch(responses, approaches []string) []models.WorkerResult {
	n := min(len(responses), len(approaches))

	results := make([]models.WorkerResult, 0, n)
	for i := 0; i < n; i++ {
		results = append(results, models.WorkerResult{
			Approach: approaches[i],
			Result:   ExtractResult(responses[i]),
		})
	}
	return results
}

// ExtractResult pulls the result tag from a worker response, falling back
// to the trimmed raw text when the model did not emit the tag.
func ExtractResult(response string) string {
	if value, ok := ExtractFirst(response, TagResult); ok {
		return value
	}
	return strings.TrimSpace(response)
}
