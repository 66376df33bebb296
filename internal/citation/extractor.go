// Package citation finds case citations in judgment text, cleans them up and
// resolves their reporter, jurisdiction and year.
//
// Extraction runs two passes. Pass A scans the clean view for a case name
// followed by a citation code. Pass B scans the running view for bare codes,
// which catches citations whose code was split across lines. Both passes share
// one set of normalized codes so a citation is reported at most once per
// judgment.
package citation

import (
	"github.com/a3tai/casecite/internal/reporters"
	"github.com/a3tai/casecite/internal/text"
)

// Pass identifies which scan produced a candidate.
type Pass string

const (
	PassNamed   Pass = "named"
	PassUnnamed Pass = "unnamed"
)

// Outcome records what happened to a candidate.
type Outcome string

const (
	OutcomeAccepted      Outcome = "accepted"
	OutcomeSelfReference Outcome = "self_reference"
	OutcomeBoilerplate   Outcome = "boilerplate"
	OutcomeDuplicate     Outcome = "duplicate"
	OutcomeEmpty         Outcome = "empty"
)

// Citation is one resolved reference from a judgment to another report.
type Citation struct {
	NeutralCitation string `json:"neutral_citation"`
	Name            string `json:"citation_name"`
	Code            string `json:"citation"`
	Reporter        string `json:"reporter"`
	Jurisdiction    string `json:"jurisdiction"`
	Year            *int   `json:"year"`
}

// Candidate is a raw pattern hit and its fate.
type Candidate struct {
	Pass    Pass    `json:"pass"`
	RawName string  `json:"raw_name,omitempty"`
	RawCode string  `json:"raw_code"`
	Name    string  `json:"name"`
	Code    string  `json:"code"`
	Outcome Outcome `json:"outcome"`
}

// Extractor is safe for concurrent use; per-document state lives in each call.
type Extractor struct {
	resolver *Resolver
}

// NewExtractor creates an extractor resolving reporters against lookup.
func NewExtractor(lookup *reporters.Lookup) *Extractor {
	return &Extractor{resolver: NewResolver(lookup)}
}

// Resolver exposes the extractor's reporter resolver.
func (e *Extractor) Resolver() *Resolver {
	return e.resolver
}

// Extract returns the accepted citations of one judgment in discovery order.
func (e *Extractor) Extract(neutral string, views text.Views) []Citation {
	citations, _ := e.scan(neutral, views)
	return citations
}

// Candidates returns every raw hit from both passes with its outcome, alongside
// the accepted citations.
func (e *Extractor) Candidates(neutral string, views text.Views) ([]Citation, []Candidate) {
	return e.scan(neutral, views)
}

func (e *Extractor) scan(neutral string, views text.Views) ([]Citation, []Candidate) {
	s := newScan(e.resolver, neutral)

	for _, m := range FindNamed(views.Clean) {
		s.consider(PassNamed, m.Name, m.Code)
	}
	for _, code := range FindUnnamed(views.Running) {
		s.consider(PassUnnamed, "", code)
	}
	return s.accepted, s.candidates
}

// scan holds the state of a single document's extraction.
type scan struct {
	resolver    *Resolver
	neutral     string
	neutralCode string
	seen        map[string]struct{}
	accepted    []Citation
	candidates  []Candidate
}

func newScan(resolver *Resolver, neutral string) *scan {
	s := &scan{
		resolver: resolver,
		neutral:  neutral,
		seen:     make(map[string]struct{}),
	}
	if codes := FindUnnamed(neutral); len(codes) > 0 {
		s.neutralCode = NormalizeCode(codes[len(codes)-1])
	}
	return s
}

func (s *scan) consider(pass Pass, rawName, rawCode string) {
	c := Candidate{Pass: pass, RawName: rawName, RawCode: rawCode}
	if pass == PassNamed {
		c.Name = CleanName(rawName)
	}
	c.Code = CleanCode(rawCode)

	switch {
	case s.isSelfReference(c.Code):
		c.Outcome = OutcomeSelfReference
	case IsBoilerplateName(c.Name):
		c.Outcome = OutcomeBoilerplate
	}
	if c.Outcome != "" {
		s.candidates = append(s.candidates, c)
		return
	}

	c.Code = StripLocator(c.Code)
	key := NormalizeCode(c.Code)

	switch _, dup := s.seen[key]; {
	case key == "":
		c.Outcome = OutcomeEmpty
	case s.isSelfReference(c.Code):
		c.Outcome = OutcomeSelfReference
	case dup:
		c.Outcome = OutcomeDuplicate
	default:
		c.Outcome = OutcomeAccepted
	}
	s.candidates = append(s.candidates, c)
	if c.Outcome != OutcomeAccepted {
		return
	}

	s.seen[key] = struct{}{}
	reporter, jurisdiction, year := s.resolver.Resolve(c.Code)
	s.accepted = append(s.accepted, Citation{
		NeutralCitation: s.neutral,
		Name:            c.Name,
		Code:            c.Code,
		Reporter:        reporter,
		Jurisdiction:    jurisdiction,
		Year:            year,
	})
}

// isSelfReference matches the neutral citation itself, or the bare code inside a
// neutral citation that carries the case name in front of it.
func (s *scan) isSelfReference(code string) bool {
	if code == s.neutral {
		return true
	}
	return s.neutralCode != "" && NormalizeCode(code) == s.neutralCode
}
