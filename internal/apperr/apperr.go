package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for expected failure modes
var (
	ErrMissingFile = errors.New("no audio file in request")
	ErrBadUpload   = errors.New("upload unreadable or malformed")
	ErrEmptyUpload = errors.New("uploaded file is empty")
)

// ProcessError represents a failure in an external process
type ProcessError struct {
	Tool     string // "basic-pitch"
	Stage    string // "transcription"
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed at %s (exit %d): %s", e.Tool, e.Stage, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s failed at %s (exit %d)", e.Tool, e.Stage, e.ExitCode)
}

func (e *ProcessError) Unwrap() error {
	return e.Cause
}

// NewProcessError creates a ProcessError
func NewProcessError(tool, stage string, exitCode int, stderr string, cause error) *ProcessError {
	return &ProcessError{
		Tool:     tool,
		Stage:    stage,
		ExitCode: exitCode,
		Stderr:   stderr,
		Cause:    cause,
	}
}

// IsProcessError reports whether err wraps a ProcessError
func IsProcessError(err error) bool {
	var pe *ProcessError
	return errors.As(err, &pe)
}
