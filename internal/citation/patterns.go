package citation

import (
	"regexp"
	"strconv"
)

// Citation-code grammar shared by the named and unnamed patterns: a bracketed or
// parenthesized four-digit year, an optional volume, a reporter abbreviation and a
// page, optionally followed by a second reporter clause.
const (
	namePart = `(?:[A-Z][A-Za-z0-9.,'’()\- &:]+v\.? [A-Z][A-Za-z0-9.,'’()\- &:]+|[A-Z][A-Za-z0-9.,'’()\- &:]+)`

	namedCodePart = `\[\d{4}\](?:\s\(\d{1,4}\))?\s*\d{0,4}\s*[A-Za-z. ]+[ ]+\s*\d{1,4}(?:\s[A-Za-z]+[ ]+\s\d{1,4})?` +
		`|\(\d{4}\)(?:\s\(\d{1,4}\))?\s*\d{0,4}\s*[A-Za-z.]+[ ]+\s*\d{1,4}(?:\s[A-Za-z]+\s\d{1,4})?`

	unnamedCodePart = `\[\d{4}\]\s*\d{0,4}\s*[A-Za-z.]+[ ]+\s*\d{1,4}(?:\s[A-Za-z]+\s\d{1,4})?` +
		`|\(\d{4}\)\s*\d{0,4}\s*[A-Za-z.]+[ ]+\s*\d{1,4}(?:\s[A-Za-z]+\s\d{1,4})?`
)

var (
	// NamedPattern captures (1) a name span and (2) the citation code right after it.
	NamedPattern = regexp.MustCompile(`(` + namePart + `)\s*(` + namedCodePart + `)`)

	// UnnamedPattern captures (1) a citation code with no name requirement.
	UnnamedPattern = regexp.MustCompile(`(` + unnamedCodePart + `)`)

	// YearReporterPattern splits a citation code into year and reporter span.
	YearReporterPattern = regexp.MustCompile(
		`\[(?P<year1>\d{4})\]\s*\d*\s(?P<rptr1>[A-Za-z. ]+)\s\d{1,4}|\((?P<year2>\d{4})\)\s*\d*\s(?P<rptr2>[A-Za-z. ]+)\s\d{1,4}`,
	)
)

// NamedMatch is one raw Pass A hit.
type NamedMatch struct {
	Name string
	Code string
}

// FindNamed returns every non-overlapping name+code match, left to right.
// Input is the clean view; spans are returned untrimmed.
func FindNamed(s string) []NamedMatch {
	found := NamedPattern.FindAllStringSubmatch(s, -1)
	out := make([]NamedMatch, 0, len(found))
	for _, m := range found {
		out = append(out, NamedMatch{Name: m[1], Code: m[2]})
	}
	return out
}

// FindUnnamed returns every non-overlapping citation code, left to right.
// Input is the running view.
func FindUnnamed(s string) []string {
	found := UnnamedPattern.FindAllStringSubmatch(s, -1)
	out := make([]string, 0, len(found))
	for _, m := range found {
		out = append(out, m[1])
	}
	return out
}

// ParseYearReporter extracts the reporter abbreviation span and the year from a
// citation code. ok is false when the code does not fit the year/reporter shape.
func ParseYearReporter(code string) (reporter string, year *int, ok bool) {
	m := YearReporterPattern.FindStringSubmatch(code)
	if m == nil {
		return "", nil, false
	}

	groups := make(map[string]string, 4)
	for i, name := range YearReporterPattern.SubexpNames() {
		if name != "" && m[i] != "" {
			groups[name] = m[i]
		}
	}

	reporter = groups["rptr1"]
	if reporter == "" {
		reporter = groups["rptr2"]
	}

	rawYear := groups["year1"]
	if rawYear == "" {
		rawYear = groups["year2"]
	}
	if n, err := strconv.Atoi(rawYear); err == nil {
		year = &n
	}
	return reporter, year, true
}
