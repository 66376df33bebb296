// Package reporters builds the read-only reporter lookup used to resolve law-report
// abbreviations found in citation codes to a canonical reporter name and jurisdiction.
package reporters

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// UnknownValue is written for missing jurisdiction and review-flag cells.
const UnknownValue = "UNKNOWN"

// Record is one row of the reporter reference table.
type Record struct {
	Reporter     string `json:"reporter"`
	Cleaned      string `json:"reporter_cleaned"`
	Jurisdiction string `json:"jurisdiction"`
	NeedToCheck  string `json:"need_to_check"`
	Count        int    `json:"count"`
}

// Entry is the value stored in the lookup for one normalized key.
type Entry struct {
	Name         string `json:"name"`
	Jurisdiction string `json:"jurisdiction"`
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeKey reduces a reporter abbreviation to its lookup key: accents removed,
// lowercased, ASCII letters and digits only.
func NormalizeKey(s string) string {
	folded, _, err := transform.String(stripAccents, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CleanReporter derives the Reporter_cleaned column of the reference table:
// lowercase with whitespace and , . : ; | ( ) [ ] removed.
func CleanReporter(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) || strings.ContainsRune(",.:;|()[]", r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Consolidate groups records that share a lookup key and keeps one record per
// group: the one with the highest count, ties going to the first seen. The kept
// record's Count becomes the sum over its group. Groups are returned in
// first-seen order.
func Consolidate(records []Record) []Record {
	type group struct {
		best  Record
		total int
	}

	order := make([]string, 0, len(records))
	groups := make(map[string]*group, len(records))

	for _, rec := range records {
		key := recordKey(rec)
		g, ok := groups[key]
		if !ok {
			groups[key] = &group{best: rec, total: rec.Count}
			order = append(order, key)
			continue
		}
		g.total += rec.Count
		if rec.Count > g.best.Count {
			g.best = rec
		}
	}

	out := make([]Record, 0, len(order))
	for _, key := range order {
		g := groups[key]
		kept := g.best
		kept.Count = g.total
		out = append(out, kept)
	}
	return out
}

// recordKey is the lookup key of a record, taken from Cleaned and falling back
// to Reporter when Cleaned normalizes to nothing.
func recordKey(rec Record) string {
	if key := NormalizeKey(rec.Cleaned); key != "" {
		return key
	}
	return NormalizeKey(rec.Reporter)
}

// Lookup maps normalized reporter keys to their canonical entry. It is built once
// and never mutated, so it is safe for concurrent readers.
type Lookup struct {
	entries map[string]Entry
}

// NewLookup builds a lookup from reference records. When several records share
// a key the one with the highest count wins, ties going to the first seen.
func NewLookup(records []Record) *Lookup {
	entries := make(map[string]Entry, len(records))
	counts := make(map[string]int, len(records))
	for _, rec := range records {
		key := recordKey(rec)
		if key == "" {
			continue
		}
		if best, exists := counts[key]; exists && rec.Count <= best {
			continue
		}
		counts[key] = rec.Count
		entries[key] = Entry{Name: rec.Reporter, Jurisdiction: rec.Jurisdiction}
	}
	return &Lookup{entries: entries}
}

// Resolve returns the canonical reporter name and jurisdiction for raw reporter
// text. A miss returns two empty strings.
func (l *Lookup) Resolve(raw string) (string, string) {
	if l == nil {
		return "", ""
	}
	entry, ok := l.entries[NormalizeKey(raw)]
	if !ok {
		return "", ""
	}
	return entry.Name, entry.Jurisdiction
}

// Len returns the number of distinct keys.
func (l *Lookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}
