package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStatusCodeMapping(t *testing.T) {
	testCases := []struct {
		err    *AppError
		status int
	}{
		{err: TemplateNotFound("x"), status: http.StatusNotFound},
		{err: DomainNotFound("x"), status: http.StatusNotFound},
		{err: GuideStepNotFound("x"), status: http.StatusNotFound},
		{err: ValidationError("bad"), status: http.StatusBadRequest},
		{err: NewAppError(ErrCodeMethodNotAllowed, "nope"), status: http.StatusMethodNotAllowed},
		{err: NewAppError(ErrCodeTemplatesFetchFailed, "Failed to load templates."), status: http.StatusInternalServerError},
		{err: InternalError("boom"), status: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(string(tc.err.Code), func(t *testing.T) {
			assert.Equal(t, tc.status, StatusCode(tc.err))
		})
	}
}

func TestGetAppErrorWrapsPlainErrors(t *testing.T) {
	plain := fmt.Errorf("disk on fire")
	appErr := GetAppError(plain)

	assert.Equal(t, ErrCodeInternalError, appErr.Code)
	assert.ErrorIs(t, appErr, plain)

	wrapped := fmt.Errorf("outer: %w", TemplateNotFound("x"))
	assert.Equal(t, ErrCodeTemplateNotFound, GetAppError(wrapped).Code)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsNotFound(plain))
}

func TestWriteHTTPErrorHidesCause(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	handler := NewHTTPErrorHandler(zap.New(core))

	cause := &os.PathError{Op: "open", Path: "/secret/library/architecture.md", Err: os.ErrPermission}
	appErr := Wrap(cause, ErrCodeTemplateFetchFailed, "Failed to load template.").
		WithDetails("permission denied on /secret").
		WithContext("slug", "architecture")

	rec := httptest.NewRecorder()
	handler.WriteHTTPError(rec, appErr)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotContains(t, rec.Body.String(), "/secret")

	var envelope ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "error", envelope.Status)
	assert.Equal(t, ErrCodeTemplateFetchFailed, envelope.Error.Code)
	assert.Equal(t, "Failed to load template.", envelope.Error.Message)

	entries := logs.FilterMessage("Failed to load template.").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestNotFoundLoggedAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	handler := NewHTTPErrorHandler(zap.New(core))

	handler.WriteHTTPError(httptest.NewRecorder(), TemplateNotFound("nonexistent"))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
}

func TestCLIFormatError(t *testing.T) {
	handler := NewCLIErrorHandler(nil, false)

	assert.Contains(t, handler.FormatError(DomainNotFound("nope")), "Memory Bank 'nope' not found.")
	assert.Contains(t, handler.FormatError(InternalError("boom")), "CRITICAL")

	verbose := NewCLIErrorHandler(zap.NewNop(), true)
	msg := verbose.FormatError(Wrap(fmt.Errorf("root cause"), ErrCodeExportFailed, "Failed to export template."))
	assert.Contains(t, msg, "root cause")
}
