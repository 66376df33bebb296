package metadata

import (
	"regexp"
	"strings"
	"time"
)

var monthAbbreviations = []struct {
	pattern *regexp.Regexp
	full    string
}{
	{regexp.MustCompile(`(?i)\bJan\b`), "January"},
	{regexp.MustCompile(`(?i)\bFeb\b`), "February"},
	{regexp.MustCompile(`(?i)\bMar\b`), "March"},
	{regexp.MustCompile(`(?i)\bApr\b`), "April"},
	{regexp.MustCompile(`(?i)\bMay\b`), "May"},
	{regexp.MustCompile(`(?i)\bJun\b`), "June"},
	{regexp.MustCompile(`(?i)\bJul\b`), "July"},
	{regexp.MustCompile(`(?i)\bAug\b`), "August"},
	{regexp.MustCompile(`(?i)\bSep\b`), "September"},
	{regexp.MustCompile(`(?i)\bOct\b`), "October"},
	{regexp.MustCompile(`(?i)\bNov\b`), "November"},
	{regexp.MustCompile(`(?i)\bDec\b`), "December"},
}

// dateLayouts are tried in order; the first successful parse wins.
var dateLayouts = []string{
	"2 January 2006",
	"2 Jan 2006",
	"2 January, 2006",
	"2 Jan, 2006",
}

// ISODate is the layout of normalized judgment dates.
const ISODate = "2006-01-02"

// ParseJudgmentDate normalizes a judgment date to YYYY-MM-DD. Unparseable input
// is returned trimmed but otherwise verbatim.
func ParseJudgmentDate(s string) string {
	original := strings.TrimSpace(s)

	expanded := s
	for _, m := range monthAbbreviations {
		expanded = m.pattern.ReplaceAllString(expanded, m.full)
	}
	expanded = strings.TrimSpace(expanded)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, expanded); err == nil {
			return t.Format(ISODate)
		}
	}
	return original
}
