package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/krmotors/internal/backend"
	"github.com/fjod/krmotors/internal/checkout"
	"github.com/fjod/krmotors/internal/domain"
	"github.com/fjod/krmotors/internal/session"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Success(map[string]string{"result": "ok"}, func(io.Writer) {
		t.Fatal("text renderer called in json mode")
	})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success(nil, func(w io.Writer) { fmt.Fprint(w, "done") }))
	assert.Equal(t, "done", buf.String())
}

func TestOutputFormatter_JSONValidationError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Error(&domain.ValidationError{Field: "phone", Message: "phone number is required"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "phone", resp.Error.Field)
	assert.Equal(t, "phone number is required", resp.Error.Message)
}

func TestOutputFormatter_TextErrorGoesToErrWriter(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: out, ErrWriter: errOut}

	require.NoError(t, formatter.Error(session.ErrForbidden))

	assert.Empty(t, out.String())
	assert.Equal(t, "Error [forbidden]: admin access required\n", errOut.String())
}

func TestErrorCodeAndExitCode(t *testing.T) {
	tests := []struct {
		err  error
		code string
		exit int
	}{
		{&domain.ValidationError{Message: "x"}, ErrCodeValidation, ExitCommandError},
		{checkout.ErrEmptyCart, ErrCodeValidation, ExitCommandError},
		{checkout.ErrLoginRequired, ErrCodeLoginRequired, ExitFailure},
		{session.ErrNoSession, ErrCodeLoginRequired, ExitFailure},
		{fmt.Errorf("x: %w", backend.ErrBackendUnavailable), ErrCodeBackendUnavailable, ExitFailure},
		{&backend.APIError{StatusCode: 500, Message: "boom"}, ErrCodeBackend, ExitFailure},
		{NewExitError(ExitCommandError, "bad flag"), ErrCodeGeneric, ExitCommandError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, errorCode(tt.err), tt.err.Error())
		assert.Equal(t, tt.exit, GetExitCode(tt.err), tt.err.Error())
	}
}
