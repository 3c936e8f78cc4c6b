package orchestrator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Jolt-Capital/langelot/pkg/models"
)

// decompositionPrompt asks for 2-3 independent approaches in the tagged
// protocol, with one agent hint per approach.
const decompositionPrompt = `Break the following task into 2-3 distinct, independent approaches. Each approach should attack the task from a different angle so that combining the results gives a stronger answer than any single approach.

Task:
%s
%s
Available agent types, pick the best fit per approach:
- reasoning: pure analysis from background knowledge. Use for conceptual, analytical, or self-contained work.
- retrieval: generation grounded in live web search. Use when the answer depends on recent or fast-changing information.
- docs: generation grounded in the user's uploaded documents. Use only when provided documents are central to the approach.

For each approach output exactly one of each tag, in this order, and nothing else:
<approach>short approach name</approach>
<description>one or two sentences on what this approach does and why it is distinct</description>
<agent>reasoning|retrieval|docs</agent>`

// synthesisPrompt merges the per-approach results into one answer.
const synthesisPrompt = `Several independent approaches to the same task have produced results. Synthesize them into one coherent answer: merge overlapping findings, resolve conflicts explicitly, and preserve the unique strengths of each approach.

Task:
%s

%s
Write the synthesized answer directly, without meta commentary about the approaches.`

// buildDecompositionPrompt renders the decomposition instruction.
func buildDecompositionPrompt(task string, context map[string]any) string {
	return fmt.Sprintf(decompositionPrompt, task, formatContext(context))
}

// buildSynthesisPrompt concatenates all (approach, result) pairs.
func buildSynthesisPrompt(task string, results []models.WorkerResult) string {
	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "Approach %d: %s\nResult:\n%s\n\n", i+1, r.Approach, r.Result)
	}
	return fmt.Sprintf(synthesisPrompt, task, sb.String())
}

// formatContext renders caller context deterministically, or an empty
// string when there is none.
func formatContext(ctx map[string]any) string {
	if len(ctx) == 0 {
		return ""
	}

	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("\nAdditional context from the caller:\n")
	for _, k := range keys {
		fmt.Fprintf(&sb, "- %s: %v\n", k, ctx[k])
	}
	return sb.String()
}
