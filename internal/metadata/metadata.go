// Package metadata pulls the judgment header fields (case name, court, judge,
// judgment date, neutral citation and so on) out of normalized document text.
package metadata

import (
	"regexp"
	"strings"

	"github.com/a3tai/casecite/internal/text"
)

// Judgment is the header record of one source document. Optional fields are nil
// when their rule did not match.
type Judgment struct {
	NeutralCitation *string `json:"neutral_citation"`
	Name            *string `json:"name"`
	Jurisdiction    *string `json:"jurisdiction"`
	Judge           *string `json:"judge"`
	JudgmentDate    *string `json:"judgment_date"`
	ReportedIn      *string `json:"reported_in"`
	Court           *string `json:"court"`
	DocumentID      *string `json:"vlex_document_id"`
	Link            *string `json:"link"`
}

// HasNeutralCitation reports whether the judgment can be persisted at all.
func (j Judgment) HasNeutralCitation() bool {
	return j.NeutralCitation != nil && *j.NeutralCitation != ""
}

// Neutral returns the neutral citation or "".
func (j Judgment) Neutral() string {
	if j.NeutralCitation == nil {
		return ""
	}
	return *j.NeutralCitation
}

// Field names a header field extracted by an anchored rule.
type Field string

const (
	FieldJurisdiction    Field = "jurisdiction"
	FieldJudge           Field = "judge"
	FieldJudgmentDate    Field = "judgment_date"
	FieldNeutralCitation Field = "neutral_citation"
	FieldReportedIn      Field = "reported_in"
	FieldCourt           Field = "court"
	FieldDocumentID      Field = "vlex_document_id"
	FieldLink            Field = "link"
)

// Rule is an anchored pattern for one field. When the pattern has alternative
// groups the first non-empty one is taken.
type Rule struct {
	Field   Field
	Pattern *regexp.Regexp
}

// Rules are evaluated case-insensitively against the clean view.
var Rules = []Rule{
	{FieldJurisdiction, regexp.MustCompile(`(?i)Jurisdiction:\s*(.*)`)},
	{FieldJudge, regexp.MustCompile(`(?i)Judge:\s*(.*)`)},
	{FieldJudgmentDate, regexp.MustCompile(`(?i)Judgment\sDate:\s*(.*)|Date:\s*(.*)`)},
	{FieldNeutralCitation, regexp.MustCompile(`(?i)Judgment\scitation\s\(vLex\):\s*(.*)|Neutral\sCitation:\s*(.*)`)},
	{FieldReportedIn, regexp.MustCompile(`(?i)Reported\sIn:\s*(.*)`)},
	{FieldCourt, regexp.MustCompile(`(?i)Court:\s*(.*)Date|Court:\s(.*)`)},
	{FieldDocumentID, regexp.MustCompile(`(?i)vLex Document Id:\s*(.*)`)},
	{FieldLink, regexp.MustCompile(`(?i)Link:\s*(.*)`)},
}

// caseNamePattern captures everything between the copyright disclaimer and the
// Jurisdiction label.
var caseNamePattern = regexp.MustCompile(`(?s)Otherwise, distribution or reproduction is not permitted(.*)\sJurisdiction:`)

var (
	trailingPunct = regexp.MustCompile(`[.,;:!?]$`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Extract applies every field rule and the case-name rule. The judgment date is
// normalized with ParseJudgmentDate.
func Extract(views text.Views) Judgment {
	var j Judgment
	j.Name = ExtractCaseName(views.Clean)

	for _, rule := range Rules {
		value := ExtractField(rule.Pattern, views.Clean)
		switch rule.Field {
		case FieldJurisdiction:
			j.Jurisdiction = value
		case FieldJudge:
			j.Judge = value
		case FieldJudgmentDate:
			if value != nil {
				parsed := ParseJudgmentDate(*value)
				value = &parsed
			}
			j.JudgmentDate = value
		case FieldNeutralCitation:
			j.NeutralCitation = value
		case FieldReportedIn:
			j.ReportedIn = value
		case FieldCourt:
			j.Court = value
		case FieldDocumentID:
			j.DocumentID = value
		case FieldLink:
			j.Link = value
		}
	}
	return j
}

// ExtractField returns the first non-empty, trimmed capture group of the first
// match, or nil.
func ExtractField(pattern *regexp.Regexp, s string) *string {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	for _, group := range m[1:] {
		if v := strings.TrimSpace(group); v != "" {
			return &v
		}
	}
	return nil
}

// ExtractCaseName returns the case title printed between the copyright
// disclaimer and "Jurisdiction:", with whitespace collapsed and one trailing
// punctuation mark removed. Documents without the disclaimer yield nil.
func ExtractCaseName(s string) *string {
	m := caseNamePattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	name := whitespaceRun.ReplaceAllString(strings.TrimSpace(m[1]), " ")
	name = trailingPunct.ReplaceAllString(name, "")
	return &name
}
