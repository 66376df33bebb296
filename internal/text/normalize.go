// Package text turns page text extracted from a judgment PDF into the two views
// consumed by metadata and citation extraction.
package text

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Views holds the two renderings of a document's text.
type Views struct {
	// Running has every line break replaced by a space. Citation codes that were
	// split across lines are matched against this view.
	Running string
	// Clean has the repeated "User-generated version" footer removed and is
	// trimmed. Metadata fields and named citations are matched against it.
	Clean string
}

// footerPattern matches the stamp printed at the foot of every exported page:
// date, time, page fraction, the marketing line and any bare page-number lines.
var footerPattern = regexp.MustCompile(
	`\d{1,2}\s[A-Za-z]{3,4}\s\d{4}\s\d{1,2}:\d{1,2}:\d{1,2}\s\d{1,3}/\d{1,3}\sUser-generated version[A-Za-z ]+(?:\n(?:\d{1,3}\n)*)?`,
)

var ligatures = strings.NewReplacer(
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬀ", "ff",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"ﬆ", "st",
)

var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// Normalize concatenates pages in order and builds both views. It never fails;
// empty input yields empty views.
func Normalize(pages []string) Views {
	return NormalizeText(strings.Join(pages, ""))
}

// NormalizeText builds both views from already concatenated text.
func NormalizeText(raw string) Views {
	if raw == "" {
		return Views{}
	}

	raw = norm.NFC.String(ligatures.Replace(raw))

	return Views{
		Running: lineBreaks.Replace(raw),
		Clean:   StripFooters(raw),
	}
}

// StripFooters removes page footers and trims surrounding whitespace.
func StripFooters(s string) string {
	return strings.TrimSpace(footerPattern.ReplaceAllString(s, " "))
}
