package models

import "testing"

func TestParseCapability(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Capability
		wantOK bool
	}{
		{"canonical reasoning", "reasoning", CapabilityReasoning, true},
		{"canonical retrieval", "retrieval", CapabilityRetrieval, true},
		{"canonical docs", "docs", CapabilityDocs, true},
		{"reason alias", "reason", CapabilityReasoning, true},
		{"search alias", "search", CapabilityRetrieval, true},
		{"web alias", "web", CapabilityRetrieval, true},
		{"documents alias", "documents", CapabilityDocs, true},
		{"document analysis alias", "document_analysis", CapabilityDocs, true},
		{"uppercase", "RETRIEVAL", CapabilityRetrieval, true},
		{"surrounding whitespace", "  docs\n", CapabilityDocs, true},
		{"unknown literal", "quantum", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCapability(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseCapability(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseCapability(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCapabilityValid(t *testing.T) {
	for _, c := range []Capability{CapabilityReasoning, CapabilityRetrieval, CapabilityDocs} {
		if !c.Valid() {
			t.Errorf("expected %q to be valid", c)
		}
	}
	if Capability("quantum").Valid() {
		t.Error("expected unknown capability to be invalid")
	}
	if Capability("").Valid() {
		t.Error("expected empty capability to be invalid")
	}
}

func TestTokenUsage(t *testing.T) {
	var u TokenUsage
	u.Add(TokenUsage{PromptTokens: 100, CompletionTokens: 50})
	u.Add(TokenUsage{PromptTokens: 20, CompletionTokens: 10})

	if u.PromptTokens != 120 || u.CompletionTokens != 60 {
		t.Errorf("unexpected usage after Add: %+v", u)
	}
	if got := u.Total(); got != 180 {
		t.Errorf("Total() = %d, want 180", got)
	}
}
