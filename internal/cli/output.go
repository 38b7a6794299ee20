package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fjod/krmotors/internal/backend"
	"github.com/fjod/krmotors/internal/checkout"
	"github.com/fjod/krmotors/internal/domain"
	"github.com/fjod/krmotors/internal/session"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // backend or session failure
	ExitCommandError = 2 // bad flags or invalid input
)

// Error codes in JSON output.
const (
	ErrCodeGeneric            = "error"
	ErrCodeValidation         = "validation"
	ErrCodeLoginRequired      = "login_required"
	ErrCodeForbidden          = "forbidden"
	ErrCodeBackendUnavailable = "backend_unavailable"
	ErrCodeBackend            = "backend_error"
	ErrCodeTimeout            = "timeout"
)

// ExitError carries an exit code with the error.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return ExitCommandError
	}
	return ExitFailure
}

// errorCode classifies err for the JSON error envelope.
func errorCode(err error) string {
	var (
		verr   *domain.ValidationError
		apiErr *backend.APIError
	)
	switch {
	case errors.As(err, &verr):
		return ErrCodeValidation
	case errors.Is(err, session.ErrNoSession), errors.Is(err, checkout.ErrLoginRequired):
		return ErrCodeLoginRequired
	case errors.Is(err, session.ErrForbidden):
		return ErrCodeForbidden
	case errors.Is(err, backend.ErrBackendUnavailable):
		return ErrCodeBackendUnavailable
	case errors.As(err, &apiErr):
		return ErrCodeBackend
	case errors.Is(err, context.DeadlineExceeded):
		return ErrCodeTimeout
	default:
		return ErrCodeGeneric
	}
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // text errors; JSON always goes to Writer
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Success writes data as the JSON envelope, or calls text for the
// human-readable form.
func (f *OutputFormatter) Success(data any, text func(w io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}
	text(f.Writer)
	return nil
}

// Error reports err in the configured format.
func (f *OutputFormatter) Error(err error) error {
	cliErr := &CLIError{
		Code:    errorCode(err),
		Message: err.Error(),
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		cliErr.Field = verr.Field
		cliErr.Message = verr.Message
	}

	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  cliErr,
		})
	}

	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	_, werr := fmt.Fprintf(w, "Error [%s]: %s\n", cliErr.Code, cliErr.Message)
	return werr
}
