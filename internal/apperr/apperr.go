// =============================================================================
// MedData CLI - Error Taxonomy
// =============================================================================
//
// This package defines the typed errors returned by every MedData component.
// Components never terminate the process themselves; they return an *Error
// and the command layer renders it as a diagnostic and exits with status 1.
//
// KINDS:
//   MissingDependency   - an external tool is not installed
//   MissingCredentials  - no API token could be resolved
//   DatasetConfigError  - descriptor missing, malformed, or incomplete
//   DataFileNotFound    - requested data file absent after download
//   UnsupportedFormat   - data file extension not recognized
//   NetworkError        - a vendor API call failed
//   PermissionError     - filesystem permission denied
//   DatasetDirNotFound  - no dataset directory exists for the doctor
//   InvalidArgument     - bad command-line input (id, duplicate dataset)
//   ProcessingError     - the pipeline produced no usable data
//
// =============================================================================

package apperr

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
)

// Kind classifies an error for diagnostics and remediation hints.
type Kind string

const (
	MissingDependency  Kind = "missing_dependency"
	MissingCredentials Kind = "missing_credentials"
	DatasetConfigError Kind = "dataset_config"
	DataFileNotFound   Kind = "missing_file"
	UnsupportedFormat  Kind = "unsupported_format"
	NetworkError       Kind = "network"
	PermissionError    Kind = "permission"
	DatasetDirNotFound Kind = "dataset_dir_not_found"
	InvalidArgument    Kind = "invalid_argument"
	ProcessingError    Kind = "dataset_processing"
)

// Error is a classified MedData error.
type Error struct {
	// Kind selects the diagnostic template.
	Kind Kind

	// Message is the human-readable description of what went wrong.
	Message string

	// Context carries template values such as "path", "service",
	// "dependency", "dataset_id" and "config_path".
	Context map[string]string

	// Details are extra lines shown under the diagnostic, e.g. the list of
	// files actually present when a data file was not found.
	Details []string

	// Remedies overrides the default remediation steps for the kind.
	Remedies []string

	// Err is the underlying cause, if any.
	Err error
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind around a cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// With attaches a context value and returns the receiver for chaining.
func (e *Error) With(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithDetails appends detail lines.
func (e *Error) WithDetails(lines ...string) *Error {
	e.Details = append(e.Details, lines...)
	return e
}

// WithRemedies replaces the default remediation steps.
func (e *Error) WithRemedies(steps ...string) *Error {
	e.Remedies = steps
	return e
}

// Get returns a context value or the fallback when absent.
func (e *Error) Get(key, fallback string) string {
	if v, ok := e.Context[key]; ok && v != "" {
		return v
	}
	return fallback
}

// ContextKeys returns the context keys in sorted order.
func (e *Error) ContextKeys() []string {
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// Is reports whether any error in the chain is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

// FromFS classifies a filesystem error: permission failures become
// PermissionError, everything else is wrapped unchanged.
func FromFS(err error, path, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrPermission) {
		return Wrap(PermissionError, err, "permission denied when %s", action).With("path", path)
	}
	return fmt.Errorf("failed %s %s: %w", action, path, err)
}
