package citation

import "github.com/a3tai/casecite/internal/reporters"

// Resolver maps a citation code to its reporter, jurisdiction and year.
type Resolver struct {
	lookup *reporters.Lookup
}

// NewResolver creates a resolver backed by the given lookup. A nil lookup
// resolves every reporter as unknown but still parses years.
func NewResolver(lookup *reporters.Lookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve returns the full reporter name and jurisdiction for the abbreviation in
// code, plus the year. Unknown abbreviations yield empty strings; codes that do
// not fit the year/reporter shape yield a nil year as well.
func (r *Resolver) Resolve(code string) (reporter, jurisdiction string, year *int) {
	abbrev, year, ok := ParseYearReporter(code)
	if !ok {
		return "", "", nil
	}
	reporter, jurisdiction = r.lookup.Resolve(abbrev)
	return reporter, jurisdiction, year
}
