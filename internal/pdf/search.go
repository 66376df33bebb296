package pdf

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Search handles PDF discovery in judgment directories.
type Search struct {
	validator *Validator
}

// NewSearch creates a new PDF search handler with the specified constraints
func NewSearch(maxFileSize int64) *Search {
	return &Search{
		validator: NewValidator(maxFileSize),
	}
}

// FindPDFs walks directory recursively and returns every file with a
// case-insensitive .pdf extension, sorted by path. Empty and oversized files are
// kept; they fail later at extraction time so the batch can report them.
func (s *Search) FindPDFs(directory string) ([]string, error) {
	absDirectory, err := resolveDirectory(directory)
	if err != nil {
		return nil, err
	}

	var paths []string
	err = filepath.WalkDir(absDirectory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Continue walking even if we encounter an error with a specific file
			return nil
		}
		if d.IsDir() || !isPDFFile(d.Name()) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// SearchDirectory lists valid PDFs under directory whose name matches query.
// An empty query matches everything.
func (s *Search) SearchDirectory(directory, query string) (*SearchResult, error) {
	paths, err := s.FindPDFs(directory)
	if err != nil {
		return nil, err
	}

	absDirectory, _ := filepath.Abs(directory)
	query = strings.ToLower(strings.TrimSpace(query))
	result := &SearchResult{Directory: absDirectory, Query: query, Files: make([]FileInfo, 0)}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if err := s.validator.ValidateFileInfo(path, info); err != nil {
			continue
		}
		if !matchesQuery(info.Name(), query) {
			continue
		}
		result.Files = append(result.Files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
	}

	result.TotalCount = len(result.Files)
	return result, nil
}

func resolveDirectory(directory string) (string, error) {
	if directory == "" {
		return "", fmt.Errorf("directory cannot be empty")
	}

	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory path: %w", err)
	}

	info, err := os.Stat(absDirectory)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("directory does not exist: %s", directory)
	}
	if err != nil {
		return "", fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", directory)
	}
	return absDirectory, nil
}

// matchesQuery requires every query word to appear in some filename word.
func matchesQuery(filename, query string) bool {
	if query == "" {
		return true
	}

	name := strings.TrimSuffix(strings.ToLower(filename), ".pdf")
	if strings.Contains(name, query) {
		return true
	}

	words := splitIntoWords(name)
	for _, queryWord := range splitIntoWords(query) {
		found := false
		for _, word := range words {
			if strings.Contains(word, queryWord) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// splitIntoWords splits a string into words using common separators
func splitIntoWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(" _-.()[]", r)
	})
}
