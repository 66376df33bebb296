package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	pdferrors "github.com/a3tai/casecite/internal/pdf/errors"
)

// Validator handles PDF file validation operations
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateFile checks path and the PDF structure and reports the outcome as a
// result rather than an error.
func (v *Validator) ValidateFile(path string) *ValidationResult {
	result := &ValidationResult{Path: path}

	if err := v.ValidatePath(path); err != nil {
		result.Message = err.Error()
		return result
	}

	pages, err := v.ValidateStructure(path)
	if err != nil {
		result.Message = err.Error()
		return result
	}

	result.Valid = true
	result.Pages = pages
	return result
}

// ValidatePath checks that path names an existing, non-empty .pdf file within
// the size limit. It does not open the file.
func (v *Validator) ValidatePath(path string) error {
	if path == "" {
		return pdferrors.New(pdferrors.KindInvalidFile, path, "path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return pdferrors.New(pdferrors.KindInvalidFile, path, "file does not exist")
	}
	if err != nil {
		return pdferrors.Wrap(pdferrors.KindInvalidFile, path, err)
	}

	return v.ValidateFileInfo(path, fileInfo)
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(path string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return pdferrors.New(pdferrors.KindInvalidFile, path, "path is a directory, not a file")
	}

	if !isPDFFile(path) {
		return pdferrors.New(pdferrors.KindInvalidFile, path, "file is not a PDF")
	}

	if fileInfo.Size() == 0 {
		return pdferrors.New(pdferrors.KindInvalidFile, path, "file is empty")
	}

	if v.maxFileSize > 0 && fileInfo.Size() > v.maxFileSize {
		return pdferrors.New(pdferrors.KindInvalidFile, path,
			fmt.Sprintf("file too large: %d bytes (max: %d bytes)", fileInfo.Size(), v.maxFileSize))
	}

	return nil
}

// ValidateStructure parses the file with pdfcpu in relaxed mode and returns
// its page count. Parser panics are reported as structure errors.
func (v *Validator) ValidateStructure(path string) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = 0
			err = pdferrors.New(pdferrors.KindStructure, path, fmt.Sprintf("PDF parser panic: %v", r))
		}
	}()

	file, err := os.Open(path)
	if err != nil {
		return 0, pdferrors.Wrap(pdferrors.KindInvalidFile, path, err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return 0, pdferrors.Wrap(pdferrors.KindStructure, path, fmt.Errorf("failed to read PDF context: %w", err))
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return 0, pdferrors.Wrap(pdferrors.KindStructure, path, fmt.Errorf("failed to ensure page count: %w", err))
	}

	return ctx.PageCount, nil
}

// isPDFFile checks for a case-insensitive .pdf extension.
func isPDFFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
