package models

import "strings"

// Capability identifies the kind of worker an approach needs.
type Capability string

const (
	// CapabilityReasoning is pure language-model reasoning with no external data.
	CapabilityReasoning Capability = "reasoning"
	// CapabilityRetrieval is generation augmented with live web retrieval.
	CapabilityRetrieval Capability = "retrieval"
	// CapabilityDocs is generation grounded in documents uploaded by the caller.
	CapabilityDocs Capability = "docs"
)

// Valid returns true if the capability is a known value.
func (c Capability) Valid() bool {
	switch c {
	case CapabilityReasoning, CapabilityRetrieval, CapabilityDocs:
		return true
	default:
		return false
	}
}

// ParseCapability maps a protocol literal to a Capability. It accepts the
// canonical names plus the aliases the decomposition model tends to emit.
// The second return value is false when the literal is not recognized.
func ParseCapability(s string) (Capability, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reasoning", "reason", "text":
		return CapabilityReasoning, true
	case "retrieval", "search", "web":
		return CapabilityRetrieval, true
	case "docs", "documents", "document", "documentanalysis", "document_analysis", "document-analysis":
		return CapabilityDocs, true
	default:
		return "", false
	}
}
