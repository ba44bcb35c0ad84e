// Package report collects the outcome of a transformation: errors that
// abort it, warnings shown once it succeeds, and user-facing processing
// errors.
package report

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mangalam-research/mmwp/xmldoc"
)

// ErrInternal marks failures that no user input should trigger. They
// mean an invariant the grammars should guarantee did not hold.
var ErrInternal = errors.New("internal failure")

// Internalf returns an error wrapping ErrInternal.
func Internalf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInternal, fmt.Sprintf(format, args...))
}

// IsInternal reports whether err wraps ErrInternal.
func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

// ProcessingError is an error meant to be shown verbatim to the user.
type ProcessingError struct {
	Title   string
	Message string
}

func (e *ProcessingError) Error() string {
	return e.Title + ": " + e.Message
}

// NewProcessingError returns a ProcessingError.
func NewProcessingError(title, message string) *ProcessingError {
	return &ProcessingError{Title: title, Message: message}
}

// Titles of the processing errors.
const (
	TitleParsing    = "Parsing Error"
	TitleValidation = "Validation Error"
	TitleInvalid    = "Invalid data"
	TitleDiffering  = "Differing Title"
	TitleFileName   = "File Name Error"
	TitleStructural = "Structural Error"
)

// ParsingMessage is the message of every parsing failure.
const ParsingMessage = "The document cannot be parsed. It is probably due to a well-formedness error. " +
	"Please check the file for well-formedness outside of this application and fix any errors before uploading again."

// AsProcessingError returns the ProcessingError in err's chain, if any.
func AsProcessingError(err error) (*ProcessingError, bool) {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// Paragraphs joins messages as one <p> element per line.
func Paragraphs[T fmt.Stringer](items []T) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "<p>" + it.String() + "</p>"
	}
	return strings.Join(lines, "\n")
}

// NodeError is a validation error located at child Index of Node.
type NodeError struct {
	Message string
	Node    *xmldoc.Node
	Index   int
}

func (e NodeError) String() string { return e.Message }

// At returns a NodeError located at n's position in its parent.
func At(n *xmldoc.Node, message string) NodeError {
	return NodeError{Message: message, Node: n.Parent, Index: xmldoc.Offset(n)}
}

// CheckError is an error recorded by a Logger.
type CheckError string

func (e CheckError) String() string { return string(e) }

// Warning is a warning recorded by a Logger.
type Warning string

func (w Warning) String() string { return string(w) }

// Logger accumulates errors and warnings in the order they are recorded.
// It is not safe for concurrent use; give each goroutine its own and
// Merge them afterwards.
type Logger struct {
	errors   []CheckError
	warnings []Warning
	// inherited is set on forks of a logger that already held errors.
	inherited bool
}

// NewLogger returns an empty Logger.
func NewLogger() *Logger {
	return &Logger{}
}

// Warn records a warning.
func (l *Logger) Warn(message string) {
	slog.Debug("warning recorded", "message", message)
	l.warnings = append(l.warnings, Warning(message))
}

// Error records one or more errors.
func (l *Logger) Error(messages ...string) {
	for _, m := range messages {
		slog.Debug("error recorded", "message", m)
		l.errors = append(l.errors, CheckError(m))
	}
}

// Fork returns an empty Logger for a unit of work run apart from l. The
// fork reports HasErrors when l already had errors.
func (l *Logger) Fork() *Logger {
	return &Logger{inherited: l.HasErrors()}
}

// Merge appends the errors and warnings of other to l.
func (l *Logger) Merge(other *Logger) {
	l.errors = append(l.errors, other.errors...)
	l.warnings = append(l.warnings, other.warnings...)
}

func (l *Logger) HasErrors() bool { return l.inherited || len(l.errors) > 0 }

func (l *Logger) HasWarnings() bool { return len(l.warnings) > 0 }

func (l *Logger) Errors() []CheckError { return l.errors }

func (l *Logger) Warnings() []Warning { return l.warnings }
