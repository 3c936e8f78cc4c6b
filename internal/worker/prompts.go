package worker

import (
	"fmt"
	"sort"
	"strings"
)

// executionPrompt is the shared instruction template. The trailing
// instruction asks for a single result tag; workers fall back to the raw
// response when the model omits it.
const executionPrompt = `You are executing one approach of a larger task. Other approaches run in parallel; focus only on yours.

Task:
%s

Your approach: %s
What this approach should do: %s
%s
Produce the best possible answer for this approach. Wrap your final answer in a single tag, exactly like this:
<result>
your answer here
</result>`

// retrievalInstruction is appended for retrieval-augmented execution.
const retrievalInstruction = `

Use live web search to ground your answer in current sources. Prefer recent, authoritative material and cite what you use.`

// documentInstruction is appended for document-grounded execution.
const documentInstruction = `

Base your answer on the attached documents. Quote or reference them where relevant, and say so explicitly if they do not cover part of the approach.`

// buildPrompt renders the execution prompt for one request.
func buildPrompt(req Request) string {
	return fmt.Sprintf(executionPrompt, req.Task, req.Approach, req.Description, formatContext(req.Context))
}

// formatContext renders the caller-supplied context as a deterministic
// block, or an empty string when there is none. Keys are sorted so the same
// context always produces the same prompt.
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
