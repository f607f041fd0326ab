package sanitize

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Patterns that may indicate prompt injection attempts
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|above|prior)\s+(instructions?|prompts?)`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?(previous|above|prior)`),
	regexp.MustCompile(`(?i)forget\s+(everything|all)`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+a`),
	regexp.MustCompile(`(?i)act\s+as\s+(if\s+you\s+are|a)`),
	regexp.MustCompile(`(?i)pretend\s+(to\s+be|you\s+are)`),
	regexp.MustCompile(`(?i)new\s+instructions?:`),
	regexp.MustCompile(`(?i)system\s*prompt:`),
	regexp.MustCompile(`(?i)<\s*script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)data:\s*text/html`),
}

var (
	scriptRe  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe   = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tagRe     = regexp.MustCompile(`<[^>]+>`)
	controlRe = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f]")
)

// UserInput sanitizes a user question before it reaches the planner
func UserInput(text string, maxLength int) string {
	if text == "" {
		return ""
	}
	text = Truncate(text, maxLength)
	text = strings.ReplaceAll(text, "\x00", "")
	text = strings.Join(strings.Fields(text), " ")
	text = html.EscapeString(text)
	return strings.TrimSpace(text)
}

// DetectInjection reports whether the input looks like a prompt
// injection attempt
func DetectInjection(text string) bool {
	for _, p := range injectionPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// WebContent strips HTML and control characters from content fetched
// from external sources, truncating to maxLength
func WebContent(htmlContent string, maxLength int) string {
	if htmlContent == "" {
		return ""
	}
	text := scriptRe.ReplaceAllString(htmlContent, "")
	text = styleRe.ReplaceAllString(text, "")
	text = tagRe.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	text = controlRe.ReplaceAllString(text, "")
	text = strings.Join(strings.Fields(text), " ")
	text = Truncate(text, maxLength)
	return strings.TrimSpace(text)
}

// Truncate cuts text to at most max bytes without splitting a UTF-8
// sequence, so Devanagari statutory text survives the cut intact
func Truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(text) <= max {
		return text
	}
	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	return text[:max]
}

// ValidateQuery validates and sanitizes a user query. Returns the
// sanitized query and a reason string when the query is rejected.
func ValidateQuery(query string) (string, string) {
	if strings.TrimSpace(query) == "" {
		return "", "question cannot be empty"
	}

	sanitized := UserInput(query, 2000)

	if len(sanitized) < 3 {
		return sanitized, "question too short (minimum 3 characters)"
	}

	if DetectInjection(sanitized) {
		return sanitized, "question contains potentially harmful content"
	}

	return sanitized, ""
}
