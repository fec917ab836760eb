package template

import (
	"errors"
	"fmt"
)

var (
	ErrMissingRequiredExport = errors.New("missing required export")
	ErrInvalidTemplateFile   = errors.New("invalid template file")
	ErrInvalidName           = errors.New("invalid template name")
)

// MissingExportError reports a dynamic template without a required symbol.
type MissingExportError struct {
	Path   string
	Symbol string
}

func (e *MissingExportError) Error() string {
	return fmt.Sprintf("%s does not export %q", e.Path, e.Symbol)
}

func (e *MissingExportError) Unwrap() error {
	return ErrMissingRequiredExport
}

// InvalidTemplateFileError reports a file with an unsupported extension.
type InvalidTemplateFileError struct {
	Path string
}

func (e *InvalidTemplateFileError) Error() string {
	return fmt.Sprintf("%s is not a template: only *.yaml files are supported", e.Path)
}

func (e *InvalidTemplateFileError) Unwrap() error {
	return ErrInvalidTemplateFile
}
