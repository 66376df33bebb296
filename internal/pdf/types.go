package pdf

import pdferrors "github.com/a3tai/casecite/internal/pdf/errors"

// FileInfo represents basic information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// SearchResult represents the result of searching a judgment directory
type SearchResult struct {
	Files      []FileInfo `json:"files"`
	TotalCount int        `json:"total_count"`
	Directory  string     `json:"directory"`
	Query      string     `json:"query,omitempty"`
}

// ValidationResult represents the result of validating a PDF file
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}

// Extraction is the page text of one document plus the pages that failed.
type Extraction struct {
	Path       string                `json:"path"`
	PageCount  int                   `json:"page_count"`
	Pages      []string              `json:"-"`
	PageErrors *pdferrors.PageErrors `json:"page_errors,omitempty"`
}
