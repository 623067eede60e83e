package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestProcessErrorMessage(t *testing.T) {
	e := NewProcessError("basic-pitch", "transcription", 2, "bad header", nil)
	want := "basic-pitch failed at transcription (exit 2): bad header"
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}

	e = NewProcessError("basic-pitch", "transcription", 1, "", nil)
	want = "basic-pitch failed at transcription (exit 1)"
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}
}

func TestProcessErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	e := NewProcessError("basic-pitch", "transcription", 1, "", cause)

	if !errors.Is(e, cause) {
		t.Error("errors.Is should find the cause")
	}

	wrapped := fmt.Errorf("convert: %w", e)
	if !IsProcessError(wrapped) {
		t.Error("IsProcessError should see through wrapping")
	}
	if IsProcessError(errors.New("plain")) {
		t.Error("IsProcessError true for plain error")
	}
}
