package llm

import (
	"sync"
	"testing"
)

func TestTokenTracker(t *testing.T) {
	tracker := NewTokenTracker()

	tracker.Add(100, 50)
	tracker.Add(20, 10)

	input, output := tracker.Total()
	if input != 120 || output != 60 {
		t.Errorf("Total() = (%d, %d), want (120, 60)", input, output)
	}
	if tracker.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", tracker.Calls())
	}
}

func TestTokenTrackerConcurrent(t *testing.T) {
	tracker := NewTokenTracker()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tracker.Add(1, 1)
			}
		}()
	}
	wg.Wait()

	input, output := tracker.Total()
	if input != 1000 || output != 1000 {
		t.Errorf("Total() = (%d, %d), want (1000, 1000)", input, output)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Error("expected error without API key")
	}
}

func TestResolveModel(t *testing.T) {
	direct := &Client{bedrock: false}
	if got := direct.resolveModel("some-model"); string(got) != "some-model" {
		t.Errorf("direct resolveModel = %q", got)
	}
	if got := direct.resolveModel(""); string(got) != DefaultModel {
		t.Errorf("empty model = %q, want default", got)
	}

	br := &Client{bedrock: true}
	if got := br.resolveModel(FastModel); string(got) != "us.anthropic.claude-3-5-haiku-20241022-v1:0" {
		t.Errorf("bedrock resolveModel = %q", got)
	}
	// Already-qualified names pass through.
	if got := br.resolveModel("us.anthropic.custom-v1:0"); string(got) != "us.anthropic.custom-v1:0" {
		t.Errorf("qualified model = %q", got)
	}
	// Unknown names pass through untranslated.
	if got := br.resolveModel("custom-model"); string(got) != "custom-model" {
		t.Errorf("unknown model = %q", got)
	}
}

func TestMimeTypeFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"report.pdf", "application/pdf"},
		{"notes.txt", "text/plain"},
		{"readme.md", "text/plain"},
		{"legacy.doc", "application/msword"},
		{"modern.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"REPORT.PDF", "application/pdf"},
	}

	for _, tt := range tests {
		if got := mimeTypeFor(tt.path); got != tt.want {
			t.Errorf("mimeTypeFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
