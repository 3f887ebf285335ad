package clipboard

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/atotto/clipboard"

	apperrors "github.com/reputable-tech/memory-bank/internal/errors"
)

// Replaced in tests.
var (
	writeAll    = clipboard.WriteAll
	unsupported = func() bool { return clipboard.Unsupported }
)

// ClipboardError represents an error when no clipboard utility is available
type ClipboardError struct {
	OS      string
	Message string
}

func (e *ClipboardError) Error() string {
	return e.Message
}

// NewClipboardError creates a new ClipboardError with helpful installation instructions
func NewClipboardError() *ClipboardError {
	return &ClipboardError{
		OS:      runtime.GOOS,
		Message: "no clipboard utility found. " + GetInstallInstructions(),
	}
}

// Copy copies text to the system clipboard
func Copy(text string) error {
	if !IsClipboardAvailable() {
		return NewClipboardError()
	}
	if err := writeAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// CopyWithFallback attempts to copy to clipboard and returns a status message
func CopyWithFallback(text string) (string, error) {
	if err := Copy(text); err != nil {
		return "", ToAppError(err)
	}
	return "Copied to clipboard!", nil
}

// ToAppError maps a copy failure to CLIPBOARD_UNAVAILABLE
func ToAppError(err error) *apperrors.AppError {
	var clipErr *ClipboardError
	if errors.As(err, &clipErr) {
		return apperrors.NewAppError(apperrors.ErrCodeClipboardUnavailable, clipErr.Message).
			WithContext("os", clipErr.OS)
	}
	return apperrors.Wrap(err, apperrors.ErrCodeClipboardUnavailable, "Failed to copy to clipboard.")
}

// IsClipboardAvailable checks if clipboard functionality is available
func IsClipboardAvailable() bool {
	return !unsupported()
}

// GetInstallInstructions returns installation instructions for clipboard utilities
func GetInstallInstructions() string {
	switch runtime.GOOS {
	case "linux":
		return "Install a clipboard utility:\n" +
			"  • Ubuntu/Debian: sudo apt install xclip\n" +
			"  • Fedora/RHEL: sudo dnf install xclip\n" +
			"  • Arch: sudo pacman -S xclip\n" +
			"  • For Wayland: install wl-clipboard"
	case "darwin":
		return "pbcopy should be available by default on macOS"
	case "windows":
		return "clip should be available by default on Windows"
	default:
		return fmt.Sprintf("Clipboard not supported on %s", runtime.GOOS)
	}
}
