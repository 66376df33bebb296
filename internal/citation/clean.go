package citation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxNameTokens bounds how far back from the code a case name may start.
const maxNameTokens = 10

var referentialPhrase = regexp.MustCompile(`(?i)(\bSee for example|\bSee generally|\bSee|\sin)\s+(.*)`)

// boilerplateMarkers show up in names when Pass A latched onto the metadata block.
var boilerplateMarkers = []string{"Text", "Neutral Citation:", "Reported In:"}

// locatorKeywords mark a pinpoint reference after the citation proper, in
// priority order.
var locatorKeywords = []*regexp.Regexp{
	regexp.MustCompile(`\bat\b`),
	regexp.MustCompile(`\bdated\b`),
	regexp.MustCompile(`\bparagraph\b`),
	regexp.MustCompile(`\bAT\b`),
}

// NormalizeCode is the identity used for deduplication: ASCII letters and digits
// only, lowercased.
func NormalizeCode(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range strings.ToLower(code) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// StripReferentialPhrase drops a "See", "See generally", "See for example" or
// " in" lead-in and everything before it.
func StripReferentialPhrase(name string) string {
	if m := referentialPhrase.FindStringSubmatch(name); m != nil {
		return strings.TrimSpace(m[2])
	}
	return strings.TrimSpace(name)
}

// TruncateName keeps the tail of a name span starting at the first capitalized
// token among its last ten tokens. Spans with no capitalized token in that window
// are returned unchanged.
func TruncateName(name string) string {
	tokens := strings.Fields(name)
	if len(tokens) > maxNameTokens {
		tokens = tokens[len(tokens)-maxNameTokens:]
	}
	for i, tok := range tokens {
		r, _ := utf8.DecodeRuneInString(tok)
		if unicode.IsUpper(r) {
			return strings.Join(tokens[i:], " ")
		}
	}
	return name
}

// CleanName runs the name through line-break normalization, phrase stripping and
// truncation.
func CleanName(raw string) string {
	return TruncateName(StripReferentialPhrase(strings.ReplaceAll(raw, "\n", " ")))
}

// CleanCode trims a code and turns embedded line breaks into spaces.
func CleanCode(raw string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(raw))
}

// IsBoilerplateName reports whether a name came from the metadata header rather
// than from the judgment body.
func IsBoilerplateName(name string) bool {
	for _, marker := range boilerplateMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// StripLocator cuts a code at the first locator keyword found, trying keywords in
// priority order, and trims the remainder.
func StripLocator(code string) string {
	for _, kw := range locatorKeywords {
		if loc := kw.FindStringIndex(code); loc != nil {
			return strings.TrimSpace(code[:loc[0]])
		}
	}
	return code
}
