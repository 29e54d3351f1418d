// Package sanitize strips HTML from API response fields and trims text for
// LLM consumption. Search results embed markup like <strong> around matched
// terms; every displayed field passes through here first.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// CleanHTML removes tags, decodes entities, and collapses whitespace.
// Total function: empty input yields empty output, never an error.
func CleanHTML(text string) string {
	if text == "" {
		return ""
	}
	text = tagPattern.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// SearchResultFields is the allow-list of fields cleaned in search results.
// Everything else passes through untouched so identifiers and dates keep
// their exact upstream form.
var SearchResultFields = []string{
	"법령명", "법령명한글", "법령명_한글", "법령명_영문", "법령명영문",
	"사건명", "안건명", "결정문명", "행정규칙명", "자치법규명",
	"조약명", "용어명", "해석명", "조문내용", "조문제목",
	"판결요지", "결정요지", "이유", "참조조문", "참조판례",
}

// CleanRecord returns a copy of rec with HTML stripped from string values,
// recursing through nested objects and arrays. When fields is non-nil only
// the named fields are cleaned; a nil list cleans every string value.
func CleanRecord(rec map[string]any, fields []string) map[string]any {
	if len(rec) == 0 {
		return rec
	}
	allowed := fieldSet(fields)
	out := make(map[string]any, len(rec))
	for key, value := range rec {
		if allowed != nil && !allowed[key] {
			out[key] = value
			continue
		}
		out[key] = cleanValue(value, allowed)
	}
	return out
}

// CleanList cleans string and object elements of a slice.
func CleanList(list []any, fields []string) []any {
	if len(list) == 0 {
		return list
	}
	allowed := fieldSet(fields)
	out := make([]any, len(list))
	for i, el := range list {
		out[i] = cleanValue(el, allowed)
	}
	return out
}

func cleanValue(value any, allowed map[string]bool) any {
	switch v := value.(type) {
	case string:
		return CleanHTML(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, inner := range v {
			if allowed != nil && !allowed[k] {
				out[k] = inner
				continue
			}
			out[k] = cleanValue(inner, allowed)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = cleanValue(inner, allowed)
		}
		return out
	default:
		return value
	}
}

func fieldSet(fields []string) map[string]bool {
	if fields == nil {
		return nil
	}
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// TruncateForLLM shortens text to maxChars, preferring to break at the last
// sentence end when one falls past 70% of the limit.
func TruncateForLLM(text string, maxChars int, suffix string) string {
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}

	truncated := string(runes[:maxChars])
	if end := lastSentenceEnd(truncated); end > len(truncated)*7/10 {
		truncated = truncated[:end]
	}
	return truncated + suffix
}

// lastSentenceEnd returns the byte offset just past the last sentence
// terminator, or -1 when none is present.
func lastSentenceEnd(s string) int {
	best := -1
	for _, sep := range []string{".", "。", "\n"} {
		if i := strings.LastIndex(s, sep); i >= 0 && i+len(sep) > best {
			best = i + len(sep)
		}
	}
	return best
}
