package clicommand

import (
	"errors"
	"fmt"
	"os"

	"github.com/levmat/version-finder/internal/verrors"
)

// ExitError signals that the command should exit with a specific code; it
// wraps an underlying error for context.
type ExitError struct {
	code  int
	inner error
}

func NewExitError(code int, err error) *ExitError {
	return &ExitError{code: code, inner: err}
}

func (e *ExitError) Code() int     { return e.code }
func (e *ExitError) Error() string { return e.inner.Error() }
func (e *ExitError) Unwrap() error { return e.inner }

func (e *ExitError) Is(target error) bool {
	terr, ok := target.(*ExitError)
	return ok && e.code == terr.code
}

// SilentExitError asks PrintMessageAndReturnExitCode to exit with a code
// without printing anything, e.g. for user interruption (Ctrl-C).
type SilentExitError struct {
	code int
}

func NewSilentExitError(code int) *SilentExitError {
	return &SilentExitError{code: code}
}

func (e *SilentExitError) Error() string { return fmt.Sprintf("silently exited status %d", e.code) }
func (e *SilentExitError) Code() int     { return e.code }

func (e *SilentExitError) Is(target error) bool {
	terr, ok := target.(*SilentExitError)
	return ok && e.code == terr.code
}

// PrintMessageAndReturnExitCode prints one line of the form
// "<error-kind>: <message>" to stderr and returns exit code 1 for any
// core error, unless err is a SilentExitError or ExitError carrying its
// own code, or nil (success, code 0).
func PrintMessageAndReturnExitCode(err error) int {
	if err == nil {
		return 0
	}

	if serr := new(SilentExitError); errors.As(err, &serr) {
		return serr.Code()
	}

	var verr *verrors.Error
	if errors.As(err, &verr) {
		fmt.Fprintf(os.Stderr, "%s: %s\n", verr.Kind, verr.Message)
	} else {
		fmt.Fprintf(os.Stderr, "%s\n", err)
	}

	if eerr := new(ExitError); errors.As(err, &eerr) {
		return eerr.Code()
	}

	return 1
}
