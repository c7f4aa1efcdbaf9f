package sheetseed

import (
	"errors"
	"fmt"

	"github.com/lbelectronica/sheetseed/pkg/sheetseed/parser"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a valid xlsx format.
var ErrInvalidFormat = parser.ErrInvalidFormat

// ErrMissingRelationship indicates a sheet points at an undeclared relationship.
var ErrMissingRelationship = parser.ErrMissingRelationship

// ErrSheetNotFound indicates no sheet matched the patterns for a purpose.
var ErrSheetNotFound = errors.New("sheet not found")

// ExtractionError represents an error during extraction.
type ExtractionError struct {
	Path  string
	Stage string // "load", "detect"
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in %q (%s): %v", e.Path, e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(path, stage string, err error) *ExtractionError {
	return &ExtractionError{
		Path:  path,
		Stage: stage,
		Err:   err,
	}
}
