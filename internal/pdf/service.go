package pdf

import (
	"fmt"

	"github.com/a3tai/casecite/internal/pdf/security"
)

// Service bundles discovery, validation and page extraction behind one
// judgments directory. Paths given to it are confined to that directory.
type Service struct {
	maxFileSize   int64
	reader        *Reader
	validator     *Validator
	search        *Search
	pathValidator *security.PathValidator
}

// NewService creates a PDF service rooted at configuredDirectory.
func NewService(maxFileSize int64, configuredDirectory string) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Service{
		maxFileSize:   maxFileSize,
		reader:        NewReader(maxFileSize),
		validator:     NewValidator(maxFileSize),
		search:        NewSearch(maxFileSize),
		pathValidator: pathValidator,
	}, nil
}

// Directory returns the absolute judgments directory.
func (s *Service) Directory() string {
	return s.pathValidator.Root()
}

// MaxFileSize returns the per-file size limit in bytes.
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// ResolvePath confines path to the judgments directory.
func (s *Service) ResolvePath(path string) (string, error) {
	resolved, err := s.pathValidator.Resolve(path)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return resolved, nil
}

// ExtractPages implements PageExtractor.
func (s *Service) ExtractPages(path string) ([]string, error) {
	resolved, err := s.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	return s.reader.ExtractPages(resolved)
}

// Extract returns the page text of path together with per-page failures.
func (s *Service) Extract(path string) (*Extraction, error) {
	resolved, err := s.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	return s.reader.Extract(resolved)
}

// FindPDFs lists every PDF under dir, or under the judgments directory when dir
// is empty.
func (s *Service) FindPDFs(dir string) ([]string, error) {
	resolved, err := s.pathValidator.ResolveDirectory(dir)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.search.FindPDFs(resolved)
}

// SearchDirectory lists valid PDFs under dir whose name matches query.
func (s *Service) SearchDirectory(dir, query string) (*SearchResult, error) {
	resolved, err := s.pathValidator.ResolveDirectory(dir)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.search.SearchDirectory(resolved, query)
}

// ValidateFile reports whether path is a readable PDF.
func (s *Service) ValidateFile(path string) (*ValidationResult, error) {
	resolved, err := s.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	return s.validator.ValidateFile(resolved), nil
}
