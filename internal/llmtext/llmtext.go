// Package llmtext holds the shared helpers for carving structured data
// out of raw model output: reasoning-tag stripping, fenced-block and
// brace-span JSON extraction. Model text is untrusted; everything here is
// best-effort and the callers decide how hard to fail.
package llmtext

import (
	"regexp"
	"strings"
)

var (
	thinkRe  = regexp.MustCompile(`(?s)<think>.*?</think>`)
	fencedRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	fenceRe  = regexp.MustCompile("```(?:json)?\\s*")
)

// StripThink removes every complete reasoning block from s. Reasoning
// content must never reach a caller, so this runs before any other
// parsing step.
func StripThink(s string) string {
	return strings.TrimSpace(thinkRe.ReplaceAllString(s, ""))
}

// FencedJSON returns the interior of the first fenced code block that
// contains a JSON object.
func FencedJSON(s string) (string, bool) {
	m := fencedRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// BraceSpan returns the substring from the first '{' through the last
// '}' in s.
func BraceSpan(s string) (string, bool) {
	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first == -1 || last == -1 || first >= last {
		return "", false
	}
	return s[first : last+1], true
}

// StripFences removes markdown code-fence markers without touching the
// fenced content itself.
func StripFences(s string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(s, ""))
}
