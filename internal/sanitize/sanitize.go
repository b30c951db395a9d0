// Package sanitize scrubs template placeholders from policy document
// text before indexing.
//
// HR policy templates arrive full of bracketed fill-in markers like
// "[insert job title]" or "[the Company]". Left in place they leak
// into retrieved passages and from there into generated answers, so
// every document is scrubbed once at load time. Scrubbing is
// deterministic and idempotent; the sanitizer version participates in
// the index fingerprint so rule changes force a rebuild.
package sanitize

import (
	"regexp"
	"strings"
)

// Version is folded into the index fingerprint. Bump when the
// replacement rules change so stale indexes are rebuilt.
const Version = "placeholders_v3"

// literal replacements, applied case-insensitively before the
// pattern-based passes.
var literals = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\[insert name and job title\]`), "HR Representative"},
	{regexp.MustCompile(`(?i)\[insert job title\]`), "HR Representative"},
	{regexp.MustCompile(`(?i)\[the Company\]`), "the company"},
	{regexp.MustCompile(`(?i)\[Company Name\]`), "the company"},
	{regexp.MustCompile(`(?i)\[Employee\]`), "employee"},
	{regexp.MustCompile(`(?i)\[INSERT LOGO HERE\]`), ""},
	{regexp.MustCompile(`(?i)\[days\]`), "days"},
	{regexp.MustCompile(`(?i)\[weeks\]`), "weeks"},
	{regexp.MustCompile(`(?i)\[months\]`), "months"},
	{regexp.MustCompile(`(?i)\[hours\]`), "hours"},
}

// contextual replacements for "insert amount of ..." style markers.
var contextual = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\[\s*insert\s+amount\s+of\s+days[^\]]*\]`), "the approved number of days"},
	{regexp.MustCompile(`(?i)\[\s*insert\s+amount\s+of\s+weeks[^\]]*\]`), "the approved number of weeks"},
	{regexp.MustCompile(`(?i)\[\s*insert\s+amount\s+of\s+months[^\]]*\]`), "the approved number of months"},
	{regexp.MustCompile(`(?i)\[\s*insert\s+amount\s*\]\s*%`), "the applicable percentage"},
	{regexp.MustCompile(`(?i)\[\s*insert\s+amount\s*\]`), "the applicable amount"},
	{regexp.MustCompile(`(?i)\[\s*insert[^\]]*\]`), "the appropriate details"},
	{regexp.MustCompile(`(?i)\[\s*state[^\]]*\]`), "the documented location"},
}

// bracketedProse matches remaining bracketed template prose such as
// "[Provided the employee gives notice ...]". Short markers like "[1]"
// contain no whitespace and are left untouched.
var bracketedProse = regexp.MustCompile(`\[\s*([^\[\]\n]{3,}?)\s*\]`)

// Text replaces template placeholders with neutral prose.
func Text(text string) string {
	if text == "" {
		return text
	}

	for _, r := range literals {
		text = r.pattern.ReplaceAllString(text, r.replacement)
	}
	for _, r := range contextual {
		text = r.pattern.ReplaceAllString(text, r.replacement)
	}

	text = bracketedProse.ReplaceAllStringFunc(text, func(match string) string {
		inner := strings.TrimSpace(match[1 : len(match)-1])
		if !strings.ContainsAny(inner, " \t") {
			// Keep short markers like [1] or [SSP].
			return match
		}
		return inner
	})

	return text
}
