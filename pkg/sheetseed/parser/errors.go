package parser

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat indicates the archive or one of its XML parts is malformed.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrMissingPart indicates a required part is absent from the archive.
var ErrMissingPart = errors.New("missing archive part")

// ErrMissingRelationship indicates a sheet references a relationship id
// that the workbook relationships part does not declare.
var ErrMissingRelationship = errors.New("missing relationship")

// LoadError represents a structural failure while loading one archive part.
type LoadError struct {
	Part string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load error in part %q: %v", e.Part, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func invalidXML(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
}
