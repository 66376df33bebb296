package errors

import (
	"errors"
	"fmt"
)

// ExtractionError describes why text could not be taken from a judgment PDF.
type ExtractionError struct {
	Kind        Kind   `json:"kind"`
	Message     string `json:"message"`
	FilePath    string `json:"file_path,omitempty"`
	PageNumber  int    `json:"page_number,omitempty"`
	Recoverable bool   `json:"recoverable"`
	Err         error  `json:"-"`
}

// Kind categorizes extraction failures.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInvalidFile covers missing, empty, oversized and non-PDF paths.
	KindInvalidFile
	// KindOpen means the PDF parser rejected the file.
	KindOpen
	// KindStructure means the structural check failed.
	KindStructure
	// KindMalformedPage means one page could not be read; the rest of the
	// document is still usable.
	KindMalformedPage
	// KindNoText means no page yielded any text, typically a scanned document.
	KindNoText
)

// Error implements the error interface
func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.PageNumber > 0 {
		msg = fmt.Sprintf("%s (page %d)", msg, e.PageNumber)
	}
	if e.FilePath != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.FilePath)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the underlying cause.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is matches another ExtractionError of the same kind, so callers can test
// errors.Is(err, &ExtractionError{Kind: KindNoText}).
func (e *ExtractionError) Is(target error) bool {
	var t *ExtractionError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// String returns a string representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindInvalidFile:
		return "INVALID_FILE"
	case KindOpen:
		return "OPEN_FAILED"
	case KindStructure:
		return "INVALID_STRUCTURE"
	case KindMalformedPage:
		return "MALFORMED_PAGE"
	case KindNoText:
		return "NO_TEXT"
	default:
		return "UNKNOWN"
	}
}

// IsRecoverable reports whether the document can still be processed after an
// error of this kind.
func (k Kind) IsRecoverable() bool {
	return k == KindMalformedPage
}

// New creates an ExtractionError for path.
func New(kind Kind, path, message string) *ExtractionError {
	return &ExtractionError{
		Kind:        kind,
		Message:     message,
		FilePath:    path,
		Recoverable: kind.IsRecoverable(),
	}
}

// Wrap creates an ExtractionError for path around err.
func Wrap(kind Kind, path string, err error) *ExtractionError {
	e := New(kind, path, "extraction failed")
	e.Err = err
	return e
}

// WithPage adds page number information to an existing ExtractionError
func (e *ExtractionError) WithPage(pageNumber int) *ExtractionError {
	e.PageNumber = pageNumber
	return e
}

// IsKind reports whether err is an ExtractionError of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *ExtractionError
	return errors.As(err, &e) && e.Kind == kind
}

// PageErrors collects the per-page failures of one document.
type PageErrors struct {
	FilePath string             `json:"file_path,omitempty"`
	Errors   []*ExtractionError `json:"errors"`
}

// NewPageErrors creates an empty collection for path.
func NewPageErrors(path string) *PageErrors {
	return &PageErrors{FilePath: path, Errors: make([]*ExtractionError, 0)}
}

// Add records a page failure.
func (p *PageErrors) Add(page int, err error) {
	e := Wrap(KindMalformedPage, p.FilePath, err).WithPage(page)
	p.Errors = append(p.Errors, e)
}

// Pages returns the page numbers that failed, in the order they were added.
func (p *PageErrors) Pages() []int {
	pages := make([]int, 0, len(p.Errors))
	for _, e := range p.Errors {
		pages = append(pages, e.PageNumber)
	}
	return pages
}

// Len returns the number of failed pages.
func (p *PageErrors) Len() int {
	return len(p.Errors)
}
