// Package protocol implements the tag-delimited text protocol used to
// exchange typed fields with the generation service. Generated text embeds
// values in spans like <approach>...</approach>; this package extracts and
// validates them.
package protocol

import (
	"regexp"
	"strings"
	"sync"
)

// Logger receives non-fatal parse warnings. The orchestrator's run log
// satisfies this interface; a nil Logger silences warnings.
type Logger interface {
	Logf(format string, args ...any)
}

var (
	tagPatternsMu sync.RWMutex
	tagPatterns   = make(map[string]*regexp.Regexp)
)

// tagPattern returns a cached non-greedy pattern for <tag>...</tag> spans.
// Dot matches newline: generated spans routinely contain embedded newlines.
func tagPattern(tag string) *regexp.Regexp {
	tagPatternsMu.RLock()
	re, ok := tagPatterns[tag]
	tagPatternsMu.RUnlock()
	if ok {
		return re
	}

	quoted := regexp.QuoteMeta(tag)
	re = regexp.MustCompile(`(?s)<` + quoted + `>(.*?)</` + quoted + `>`)

	tagPatternsMu.Lock()
	tagPatterns[tag] = re
	tagPatternsMu.Unlock()
	return re
}

// ExtractAll returns every non-overlapping <tag>...</tag> span in document
// order, each trimmed of leading and trailing whitespace. Tag names match
// exactly and case-sensitively. Absence of the tag yields an empty slice.
func ExtractAll(text, tag string) []string {
	matches := tagPattern(tag).FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	values := make([]string, 0, len(matches))
	for _, m := range matches {
		values = append(values, strings.TrimSpace(m[1]))
	}
	return values
}

// ExtractFirst returns the first <tag>...</tag> span, trimmed. The second
// return value is false when the tag never appears.
func ExtractFirst(text, tag string) (string, bool) {
	values := ExtractAll(text, tag)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}
