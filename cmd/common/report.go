package common

import (
	"errors"

	"github.com/comonadd/codetemplate/internal/manager"
	"github.com/comonadd/codetemplate/internal/ui"
)

// ReportedError marks an error that has already been shown to the user.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }

func (e *ReportedError) Unwrap() error { return e.Err }

// Report prints err once and returns it marked as reported, so the process
// still exits non-zero. Outcomes the user can act on are printed as
// warnings, everything else as errors.
func Report(err error) error {
	if err == nil {
		return nil
	}
	var reported *ReportedError
	if errors.As(err, &reported) {
		return err
	}
	if manager.IsRecoverable(err) {
		ui.Warning(err.Error())
	} else {
		ui.Error(err.Error())
	}
	return &ReportedError{Err: err}
}
