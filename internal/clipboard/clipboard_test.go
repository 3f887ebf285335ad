package clipboard

import (
	"errors"
	"runtime"
	"strings"
	"testing"

	apperrors "github.com/reputable-tech/memory-bank/internal/errors"
)

func stubClipboard(t *testing.T, isUnsupported bool, write func(string) error) {
	t.Helper()
	oldWrite, oldUnsupported := writeAll, unsupported
	writeAll = write
	unsupported = func() bool { return isUnsupported }
	t.Cleanup(func() {
		writeAll = oldWrite
		unsupported = oldUnsupported
	})
}

func TestClipboardError(t *testing.T) {
	err := NewClipboardError()

	if err.OS != runtime.GOOS {
		t.Errorf("Expected OS to be %s, got %s", runtime.GOOS, err.OS)
	}

	if err.Error() == "" {
		t.Error("Error message should not be empty")
	}
}

func TestCopyWithFallbackSuccess(t *testing.T) {
	var copied string
	stubClipboard(t, false, func(text string) error {
		copied = text
		return nil
	})

	msg, err := CopyWithFallback("# Architecture")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Copied to clipboard!" {
		t.Errorf("unexpected status message %q", msg)
	}
	if copied != "# Architecture" {
		t.Errorf("expected content to be copied, got %q", copied)
	}
}

func TestCopyUnsupported(t *testing.T) {
	stubClipboard(t, true, func(string) error {
		t.Fatal("write should not be attempted")
		return nil
	})

	if IsClipboardAvailable() {
		t.Error("clipboard should report unavailable")
	}

	err := Copy("text")
	var clipErr *ClipboardError
	if !errors.As(err, &clipErr) {
		t.Fatalf("expected ClipboardError, got %v", err)
	}

	_, err = CopyWithFallback("text")
	appErr := apperrors.GetAppError(err)
	if appErr.Code != apperrors.ErrCodeClipboardUnavailable {
		t.Errorf("expected %s, got %s", apperrors.ErrCodeClipboardUnavailable, appErr.Code)
	}
}

func TestCopyWriteFailure(t *testing.T) {
	stubClipboard(t, false, func(string) error {
		return errors.New("exit status 1")
	})

	err := Copy("text")
	if err == nil || !strings.Contains(err.Error(), "failed to copy to clipboard") {
		t.Fatalf("expected wrapped error, got %v", err)
	}

	_, err = CopyWithFallback("text")
	if apperrors.GetAppError(err).Code != apperrors.ErrCodeClipboardUnavailable {
		t.Errorf("expected clipboard error code, got %v", err)
	}
}

func TestGetInstallInstructions(t *testing.T) {
	instructions := GetInstallInstructions()

	if instructions == "" {
		t.Error("Install instructions should not be empty")
	}

	switch runtime.GOOS {
	case "linux":
		if !strings.Contains(instructions, "xclip") {
			t.Error("Linux instructions should mention xclip")
		}
	case "darwin":
		if !strings.Contains(instructions, "pbcopy") {
			t.Error("macOS instructions should mention pbcopy")
		}
	}
}
