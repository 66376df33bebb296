package mcp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a3tai/casecite/internal/citation"
	"github.com/a3tai/casecite/internal/pipeline"
)

func formatDocumentResult(result *pipeline.DocumentResult) string {
	var b strings.Builder

	if result.Path != "" {
		fmt.Fprintf(&b, "Document: %s (%d pages)\n", result.Path, result.Pages)
	}
	if result.Skipped {
		fmt.Fprintf(&b, "Skipped: %s, nothing was written\n", result.SkipReason)
		return b.String()
	}

	b.WriteString("\n")
	writeJudgment(&b, result)
	writeCitations(&b, result.Citations)

	if result.Saved != nil {
		fmt.Fprintf(&b, "\nSaved: %d inserted, %d updated, %d skipped\n",
			result.Saved.Inserted, result.Saved.Updated, result.Saved.Skipped)
	}

	if len(result.Candidates) > 0 {
		fmt.Fprintf(&b, "\nCandidates (%d):\n", len(result.Candidates))
		for _, c := range result.Candidates {
			name := c.Name
			if name == "" {
				name = "-"
			}
			fmt.Fprintf(&b, "  [%s] %s | %s | %s\n", c.Outcome, c.Pass, name, c.Code)
		}
	}
	return b.String()
}

func writeJudgment(b *strings.Builder, result *pipeline.DocumentResult) {
	j := result.Judgment
	b.WriteString("Judgment:\n")
	fmt.Fprintf(b, "  Neutral citation: %s\n", orDash(j.NeutralCitation))
	fmt.Fprintf(b, "  Name: %s\n", orDash(j.Name))
	fmt.Fprintf(b, "  Court: %s\n", orDash(j.Court))
	fmt.Fprintf(b, "  Judge: %s\n", orDash(j.Judge))
	fmt.Fprintf(b, "  Date: %s\n", orDash(j.JudgmentDate))
	fmt.Fprintf(b, "  Jurisdiction: %s\n", orDash(j.Jurisdiction))
	if j.ReportedIn != nil {
		fmt.Fprintf(b, "  Reported in: %s\n", *j.ReportedIn)
	}
	if j.Link != nil {
		fmt.Fprintf(b, "  Link: %s\n", *j.Link)
	}
}

func writeCitations(b *strings.Builder, citations []citation.Citation) {
	if len(citations) == 0 {
		b.WriteString("\nNo citations found\n")
		return
	}

	fmt.Fprintf(b, "\nCitations (%d):\n", len(citations))
	for i, c := range citations {
		name := c.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(b, "%d. %s %s\n   Reporter: %s, Jurisdiction: %s, Year: %s\n",
			i+1, name, c.Code, orDash(&c.Reporter), orDash(&c.Jurisdiction), formatYear(c.Year))
	}
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func formatYear(year *int) string {
	if year == nil {
		return "-"
	}
	return strconv.Itoa(*year)
}
