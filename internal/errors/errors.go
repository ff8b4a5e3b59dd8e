package errors

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Exit codes for the CLI.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, configuration, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, git, permissions, etc.).
	ExitSystem = 2
)

// Sentinel errors for common failure conditions.
var (
	// ErrStoreNotFound indicates the store manifest is absent at the
	// configured path. The store is never auto-created on open.
	ErrStoreNotFound = errors.New("store not initialized")

	// ErrProjectNotFound indicates a store namespace does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrProjectExists indicates a rename target namespace already exists.
	ErrProjectExists = errors.New("target project already exists")
)

// ParseError reports malformed structured data (frontmatter or a store
// record) in a specific file. A single ParseError aborts the whole
// operation; partial data is never silently skipped.
type ParseError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError wraps err as a ParseError for the given file path.
func NewParseError(path string, err error) *ParseError {
	return &ParseError{Path: path, Err: err}
}

// WriteError reports a write that was refused for a stated reason rather
// than failing at the OS level (e.g. rename target already exists).
type WriteError struct {
	Path   string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write to %s: %s", e.Path, e.Reason)
}

// Unwrap returns the underlying cause, which may be nil.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// UnknownFormatError reports a format name outside the closed codec set.
type UnknownFormatError struct {
	Name  string
	Valid []string
}

// Error implements the error interface.
func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown format %q: valid formats are %s", e.Name, strings.Join(e.Valid, ", "))
}

// ExitError wraps an error with an exit code and optional suggestion for
// the CLI. It supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitUser, Suggestion: suggestion}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitSystem, Suggestion: suggestion}
}

// Error returns the message from the underlying error, falling back to
// the suggestion when the error was raised without a cause.
func (e *ExitError) Error() string {
	if e.Err == nil {
		if e.Suggestion != "" {
			return e.Suggestion
		}
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}
