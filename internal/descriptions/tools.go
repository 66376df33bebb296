package descriptions

// Tool descriptions shown to MCP clients, with usage examples

const (
	// Pipeline tools
	ProcessFileDescription = `Extract the header metadata and every cited authority from one judgment PDF and store them.

**When to use:** A judgment has been added or corrected and its citations should be (re)indexed.

**What happens:** The page text is normalized, the judgment header (case name, court, judge, date, neutral citation) is read, citations are found by the named and unnamed passes, resolved against the reporter table and upserted. Running it twice on the same file changes nothing.

**Examples:**
• Index one judgment: "Process 2020/ABC-v-DEF.pdf"
• Re-index after a fix: "Process judgments/re-esteem-settlement.pdf again"

**Best practices:** Use citations_preview_file first when unsure how a document will be read. Documents without a neutral citation are skipped and nothing is written.`

	PreviewFileDescription = `Dry run of citations_process_file: show what would be stored without writing anything.

**When to use:** Checking how a judgment is parsed, or why a citation was or was not picked up.

**What happens:** Returns the extracted metadata, the accepted citations and every raw candidate with its outcome (accepted, self_reference, boilerplate, duplicate, empty). Results are cached until the file changes.

**Examples:**
• Debug a missing citation: "Preview judgments/smith-v-jones.pdf and show rejected candidates"`

	GetJudgmentDescription = `Look up a stored judgment and the citations recorded for it.

**When to use:** Reading back what was indexed for a neutral citation.

**Examples:**
• "Get the stored citations for [2020] JRC 001"

**Best practices:** Pass the neutral citation exactly as stored, e.g. "ABC v DEF [2020] JRC 001".`

	ResolveReporterDescription = `Resolve a citation code to its reporter, jurisdiction and year using the reporter reference table.

**When to use:** Checking whether a reporter abbreviation is known, or what a code resolves to.

**Examples:**
• "Resolve [1999] 2 JLR 345" gives reporter JLR, jurisdiction Jersey, year 1999
• "Resolve (2002) J.L.R. 1" matches the same reporter despite the dots

**Best practices:** Citations with an unknown reporter are still stored when processing, with empty reporter and jurisdiction.`

	// Discovery tools
	SearchDirectoryDescription = `List judgment PDFs under the configured directory, optionally filtered by file name.

**When to use:** Finding which files are available before processing or previewing them.

**Examples:**
• "List all judgments"
• "Find judgments with 'esteem' in the file name"

**Best practices:** Directories outside the configured judgments directory are refused.`

	ValidateFileDescription = `Check that a file is a readable PDF before processing it.

**When to use:** A document fails to process and you want to know whether the file itself is damaged.

**Examples:**
• "Validate 2020/ABC-v-DEF.pdf"`

	ServerInfoDescription = `Show the server version, judgments directory, database totals and available tools.

**When to use:** Start here to see what has been indexed so far and which tools are available.`
)
